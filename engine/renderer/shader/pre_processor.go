// pre_processor.go implements the Oxy WGSL pre-processor. A line of the form
//
//	// @oxy:include <name>
//
// is replaced by the registered WGSL source for <name>. Each name is injected at most once per
// Process call so a shader can include a struct from several places without redeclaring it.
package shader

import (
	_ "embed"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-learn/engine/camera"
	"github.com/Carmen-Shannon/oxy-learn/engine/model"
)

// includeDirective is the marker that identifies an include inside a WGSL line comment.
const includeDirective = "@oxy:include"

// GPUTransformUniformSource is the WGSL struct holding a full model/view/projection triple,
// used by pipelines that upload every matrix per object.
//
//go:embed assets/transform_uniform.wgsl
var GPUTransformUniformSource string

// Built-in include names.
const (
	IncludeCamera    = "camera"
	IncludeTransform = "transform"
	IncludeModel     = "model"
)

// PreProcessor expands @oxy:include directives in WGSL source.
type PreProcessor interface {
	// Register adds or replaces the WGSL source injected for name.
	//
	// Parameters:
	//   - name: the include name used after @oxy:include
	//   - source: the WGSL text to inject
	Register(name, source string)

	// Names returns every registered include name in sorted order.
	//
	// Returns:
	//   - []string: the registered names
	Names() []string

	// Process replaces every include directive in source with its registered WGSL.
	// The list returned by Includes is reset at the start of each call.
	//
	// Parameters:
	//   - source: raw WGSL containing include directives
	//
	// Returns:
	//   - string: the expanded WGSL
	//   - error: an error naming the line of a malformed or unknown include
	Process(source string) (string, error)

	// Includes returns the names injected by the most recent Process call, in source order.
	//
	// Returns:
	//   - []string: the included names
	Includes() []string
}

type preProcessor struct {
	registry map[string]string
	included []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's GPU struct sources registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[string]string{
			IncludeCamera:    camera.GPUCameraUniformSource,
			IncludeTransform: GPUTransformUniformSource,
			IncludeModel:     model.GPUModelUniformSource,
		},
	}
}

func (p *preProcessor) Register(name, source string) {
	p.registry[name] = source
}

func (p *preProcessor) Names() []string {
	return slices.Sorted(maps.Keys(p.registry))
}

func (p *preProcessor) Process(source string) (string, error) {
	p.included = p.included[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		name, ok, err := parseInclude(line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", i+1, err)
		}
		if !ok {
			out = append(out, line)
			continue
		}

		src, known := p.registry[name]
		if !known {
			return "", fmt.Errorf("line %d: unknown include %q", i+1, name)
		}
		if slices.Contains(p.included, name) {
			continue
		}
		p.included = append(p.included, name)
		out = append(out, strings.TrimRight(src, "\n"))
	}

	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []string {
	return slices.Clone(p.included)
}

// parseInclude reports whether line is an include directive and returns its name.
// Lines that are not line comments, or comments without the directive, are not includes.
func parseInclude(line string) (string, bool, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return "", false, nil
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), includeDirective)
	if !ok {
		return "", false, nil
	}
	// "@oxy:included" and similar are not directives
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false, nil
	}

	args := strings.Fields(rest)
	if len(args) != 1 {
		return "", false, fmt.Errorf("%s takes exactly one name, got %d", includeDirective, len(args))
	}
	return args[0], true, nil
}
