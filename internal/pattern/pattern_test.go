package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		name    string
		pattern string
		path    string
		isDir   bool
		want    bool
	}{
		{"star matches basename", "*.log", "a.log", false, true},
		{"star matches at depth", "*.log", "dir/sub/a.log", false, true},
		{"star does not cross extension", "*.log", "a.logx", false, false},
		{"star does not cross separator", "src*go", "src/main.go", false, false},
		{"question mark single char", "?.log", "a.log", false, true},
		{"question mark exactly one", "?.log", "ab.log", false, false},
		{"literal name any depth", "build", "build", true, true},
		{"literal name nested", "build", "x/y/build", true, true},
		{"anchored leading slash", "/build", "build", true, true},
		{"anchored not nested", "/build", "x/build", true, false},
		{"interior slash anchors", "src/*.go", "src/main.go", false, true},
		{"interior slash not nested", "src/*.go", "other/src/main.go", false, false},
		{"interior slash single level", "src/*.go", "src/sub/main.go", false, false},
		{"double star prefix", "**/temp", "a/b/temp", false, true},
		{"double star prefix zero dirs", "**/temp", "temp", false, true},
		{"double star suffix", "docs/**", "docs/a/b.txt", false, true},
		{"double star suffix excludes root", "docs/**", "docs", true, false},
		{"double star middle", "a/**/b", "a/x/y/b", false, true},
		{"double star middle zero dirs", "a/**/b", "a/b", false, true},
		{"dir only on dir", "build/", "build", true, true},
		{"dir only not on file", "build/", "build", false, false},
		{"regex chars are literal", "a+b.txt", "a+b.txt", false, true},
		{"regex chars stay literal", "a+b.txt", "aab.txt", false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := Parse(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Matches(tc.path, tc.isDir))
		})
	}
}

func TestParseFlags(t *testing.T) {
	p, err := Parse("!keep.log")
	require.NoError(t, err)
	assert.True(t, p.Negated)
	assert.True(t, p.Matches("keep.log", false))

	p, err = Parse("/src/")
	require.NoError(t, err)
	assert.True(t, p.Anchored)
	assert.True(t, p.DirOnly)

	p, err = Parse(`\#literal`)
	require.NoError(t, err)
	assert.False(t, p.Negated)
	assert.True(t, p.Matches("#literal", false))

	p, err = Parse(`\!bang`)
	require.NoError(t, err)
	assert.False(t, p.Negated)
	assert.True(t, p.Matches("!bang", false))
}

func TestParseUnusable(t *testing.T) {
	for _, raw := range []string{"", "!", "/", "!/"} {
		p, err := Parse(raw)
		require.Error(t, err, "pattern %q should be unusable", raw)
		// Unusable patterns must match nothing instead of panicking.
		assert.False(t, p.Matches("anything", false))
		assert.False(t, p.Matches("anything", true))
	}
}

func TestMatchesIsDeterministic(t *testing.T) {
	p, err := Parse("**/cache/*.tmp")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.True(t, p.Matches("a/cache/x.tmp", false))
		assert.False(t, p.Matches("a/cache/deep/x.tmp", false))
	}
}

func TestHasMeta(t *testing.T) {
	assert.True(t, HasMeta("*.log"))
	assert.True(t, HasMeta("file?.txt"))
	assert.False(t, HasMeta("plain/path.txt"))
}
