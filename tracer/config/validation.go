package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

func validatePositive(field string, value float64) []ValidationError {
	if value <= 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be positive",
		}}
	}
	return nil
}

func validateNonNegative(field string, value float64) []ValidationError {
	if value < 0 {
		return []ValidationError{{
			Field:   field,
			Message: "must be non-negative",
		}}
	}
	return nil
}

func validateInRange(field string, value, min, max float64) []ValidationError {
	if value < min || value > max {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("must be between %v and %v", min, max),
		}}
	}
	return nil
}

func validateColor(field string, c [3]float64) []ValidationError {
	for _, v := range c {
		if v < 0 {
			return []ValidationError{{
				Field:   field,
				Message: "color components must be non-negative",
			}}
		}
	}
	return nil
}

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatValidationErrors groups errors by their top-level section
func FormatValidationErrors(errs []ValidationError) string {
	if len(errs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Validation Errors:\n")

	categories := map[string][]ValidationError{}
	for _, err := range errs {
		category := strings.Split(err.Field, ".")[0]
		categories[category] = append(categories[category], err)
	}
	names := make([]string, 0, len(categories))
	for category := range categories {
		names = append(names, category)
	}
	sort.Strings(names)

	for _, category := range names {
		b.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(category)))
		for _, err := range categories[category] {
			// Remove category prefix from field for cleaner display
			field := strings.TrimPrefix(err.Field, category+".")
			if field == category {
				field = "general"
			}
			b.WriteString(fmt.Sprintf("  - %s: %s\n", field, err.Message))
		}
	}

	return b.String()
}

// Validate performs validation on the entire configuration
func (c *RenderConfig) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.Input.Validate()...)
	errors = append(errors, c.Materials.Validate()...)
	errors = append(errors, c.Render.Validate()...)
	errors = append(errors, c.Output.Validate()...)
	return errors
}

func (i *Input) Validate() []ValidationError {
	if i.Scene.Path == "" {
		return []ValidationError{{
			Field:   "input.scene.path",
			Message: "scene path is required",
		}}
	}
	return nil
}

func (m *Materials) Validate() []ValidationError {
	var errors []ValidationError

	names := make([]string, 0, len(m.Inline))
	for name := range m.Inline {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		errors = append(errors, m.Inline[name].validate("materials.inline."+name)...)
	}
	return errors
}

func (m Material) validate(prefix string) []ValidationError {
	var errors []ValidationError
	switch m.Kind {
	case "", KindPhong:
		if m.Ambient != nil {
			errors = append(errors, validateColor(prefix+".ambient", *m.Ambient)...)
		}
		errors = append(errors, validateColor(prefix+".diffuse", m.Diffuse)...)
		errors = append(errors, validateColor(prefix+".specular", m.Specular)...)
		errors = append(errors, validateColor(prefix+".mirror", m.Mirror)...)
		errors = append(errors, validateNonNegative(prefix+".shininess", m.Shininess)...)
	case KindDielectric:
		errors = append(errors, validatePositive(prefix+".ior", m.IOR)...)
		errors = append(errors, validateColor(prefix+".attenuation", m.Attenuation)...)
	default:
		errors = append(errors, ValidationError{
			Field:   prefix + ".kind",
			Message: fmt.Sprintf("unknown material kind '%s'", m.Kind),
		})
	}
	return errors
}

func (r *Render) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateNonNegative("render.image_height", float64(r.ImageHeight))...)
	errors = append(errors, validatePositive("render.samples_per_pixel", float64(r.SamplesPerPixel))...)
	errors = append(errors, validatePositive("render.shadow_samples", float64(r.ShadowSamples))...)
	errors = append(errors, validateInRange("render.max_depth", float64(r.MaxDepth), 1, 64)...)
	errors = append(errors, validateNonNegative("render.workers", float64(r.Workers))...)

	return errors
}

func (o *Output) Validate() []ValidationError {
	var errors []ValidationError

	if o.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "output.path",
			Message: "output path is required",
		})
	} else {
		switch strings.ToLower(filepath.Ext(o.Path)) {
		case ".png", ".pfm":
		default:
			errors = append(errors, ValidationError{
				Field:   "output.path",
				Message: "output must be a .png or .pfm file",
			})
		}
	}
	errors = append(errors, validatePositive("output.gamma", o.Gamma)...)
	if len(o.ToneCurve) == 1 {
		errors = append(errors, ValidationError{
			Field:   "output.tone_curve",
			Message: "needs at least 2 points",
		})
	}

	return errors
}
