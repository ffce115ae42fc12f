package config

// RenderConfig represents the complete configuration for one render
type RenderConfig struct {
	Metadata  Metadata  `yaml:"metadata"`
	Input     Input     `yaml:"input"`
	Materials Materials `yaml:"materials"`
	Render    Render    `yaml:"render"`
	Output    Output    `yaml:"output"`
}

type Metadata struct {
	Timestamp string `yaml:"timestamp"` // YYYY-MM-DD HH:MM:SS in UTC
	GitCommit string `yaml:"git_commit"`
	Host      string `yaml:"host"`
	GoVersion string `yaml:"go_version"`
}

type Input struct {
	Scene struct {
		Path string `yaml:"path"`
	} `yaml:"scene"`
}

type Materials struct {
	Inline   map[string]Material `yaml:"inline,omitempty"`
	FromFile string              `yaml:"from_file,omitempty"`
}

// Material is a named material that scene files select with "u <name>".
type Material struct {
	Kind      string      `yaml:"kind" json:"kind"` // "phong" (default) or "dielectric"
	Ambient   *[3]float64 `yaml:"ambient,omitempty" json:"ambient,omitempty"`
	Diffuse   [3]float64  `yaml:"diffuse" json:"diffuse"`
	Specular  [3]float64  `yaml:"specular" json:"specular"`
	Shininess float64     `yaml:"shininess" json:"shininess"`
	Mirror    [3]float64  `yaml:"mirror" json:"mirror"`

	// Dielectric only
	IOR         float64    `yaml:"ior,omitempty" json:"ior,omitempty"`
	Attenuation [3]float64 `yaml:"attenuation,omitempty" json:"attenuation,omitempty"`
}

const (
	KindPhong      = "phong"
	KindDielectric = "dielectric"
)

type Render struct {
	// Overrides the height from the scene camera when positive
	ImageHeight     int   `yaml:"image_height"`
	SamplesPerPixel int   `yaml:"samples_per_pixel"`
	ShadowSamples   int   `yaml:"shadow_samples"`
	MaxDepth        int   `yaml:"max_depth"`
	Workers         int   `yaml:"workers"`
	Seed            int64 `yaml:"seed"`
	UseBVH          *bool `yaml:"use_bvh,omitempty"`
}

type Output struct {
	Path         string              `yaml:"path"`
	Gamma        float64             `yaml:"gamma"`
	ToneCurve    map[float64]float64 `yaml:"tone_curve,omitempty"`
	Stats        bool                `yaml:"stats"`
	PlotRowTimes bool                `yaml:"plot_row_times"`
	Annotations  bool                `yaml:"annotations"`
}

// Default returns the configuration used when no file is given.
func Default() *RenderConfig {
	return &RenderConfig{
		Render: Render{
			SamplesPerPixel: 1,
			ShadowSamples:   1,
			MaxDepth:        5,
			Seed:            123543,
		},
		Output: Output{
			Path:  "render.png",
			Gamma: 2,
		},
	}
}

// BVHEnabled reports whether the scene should be wrapped in a BVH.
func (r Render) BVHEnabled() bool {
	return r.UseBVH == nil || *r.UseBVH
}
