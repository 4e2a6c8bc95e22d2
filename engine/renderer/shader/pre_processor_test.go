package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreProcessorNames(t *testing.T) {
	pp := NewPreProcessor()
	assert.Equal(t, []string{IncludeCamera, IncludeModel, IncludeTransform}, pp.Names())

	pp.Register("light", "struct Light { color: vec3<f32>, };")
	assert.Contains(t, pp.Names(), "light")
}

func TestPreProcessorExpandsOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("// @oxy:include camera\nfn a() {}\n    //@oxy:include camera\n")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct CameraUniform"))
	assert.Equal(t, []string{IncludeCamera}, pp.Includes())
}

func TestPreProcessorResetsIncludes(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("// @oxy:include transform\n")
	require.NoError(t, err)
	_, err = pp.Process("fn a() {}\n")
	require.NoError(t, err)
	assert.Empty(t, pp.Includes())
}

func TestPreProcessorLeavesOtherLines(t *testing.T) {
	src := strings.Join([]string{
		"// a regular comment",
		"// @oxy:included camera",
		"let x = 1; // @oxy:include camera",
		"",
	}, "\n")

	out, err := NewPreProcessor().Process(src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestPreProcessorErrorLine(t *testing.T) {
	_, err := NewPreProcessor().Process("fn a() {}\n\n// @oxy:include nope\n")
	require.Error(t, err)
	assert.Equal(t, `line 3: unknown include "nope"`, err.Error())
}

func TestPreProcessorIncludesAreCopies(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("// @oxy:include camera\n")
	require.NoError(t, err)

	got := pp.Includes()
	got[0] = "changed"
	assert.Equal(t, []string{IncludeCamera}, pp.Includes())
}
