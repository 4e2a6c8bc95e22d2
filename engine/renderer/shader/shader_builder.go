package shader

// ShaderBuilderOption is a functional option for configuring a shader before it is compiled.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the reflected entry point name.
//
// Parameters:
//   - name: the WGSL function name to use
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithInclude registers an extra include for this shader only.
//
// Parameters:
//   - name: the include name used after @oxy:include
//   - source: the WGSL text to inject
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithInclude(name, source string) ShaderBuilderOption {
	return func(s *shader) {
		s.pp.Register(name, source)
	}
}

// WithPreProcessor replaces the default pre-processor.
//
// Parameters:
//   - pp: the pre-processor to expand includes with
//
// Returns:
//   - ShaderBuilderOption: option function to apply
func WithPreProcessor(pp PreProcessor) ShaderBuilderOption {
	return func(s *shader) {
		if pp != nil {
			s.pp = pp
		}
	}
}
