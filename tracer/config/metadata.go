package config

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// MetadataCollector stamps a render config with where and when it ran.
type MetadataCollector struct {
	timestamp time.Time
	gitCommit string
	host      string
}

// NewMetadataCollector snapshots the current time, git commit and host.
// Outside a git checkout the commit is recorded as "unknown".
func NewMetadataCollector() *MetadataCollector {
	commit, err := currentGitCommit()
	if err != nil {
		commit = "unknown"
	}
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return &MetadataCollector{
		timestamp: time.Now().UTC(),
		gitCommit: commit,
		host:      host,
	}
}

func currentGitCommit() (string, error) {
	out, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// PopulateMetadata fills in the metadata fields of the config
func (mc *MetadataCollector) PopulateMetadata(config *RenderConfig) {
	config.Metadata.Timestamp = mc.timestamp.Format("2006-01-02 15:04:05")
	config.Metadata.GitCommit = mc.gitCommit
	config.Metadata.Host = mc.host
	config.Metadata.GoVersion = runtime.Version()
}
