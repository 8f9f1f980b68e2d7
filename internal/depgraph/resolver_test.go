package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_PathStyleSpecifiers(t *testing.T) {
	t.Parallel()

	resolver := NewResolver([]string{
		"main.js",
		"services/a.js",
		"services/b.js",
		"utils/h.js",
	})

	target, ok := resolver.Resolve("./services/a", "main.js")
	require.True(t, ok)
	assert.Equal(t, "services/a.js", target)

	target, ok = resolver.Resolve("../utils/h", "services/a.js")
	require.True(t, ok)
	assert.Equal(t, "utils/h.js", target)

	target, ok = resolver.Resolve("./b", "services/a.js")
	require.True(t, ok)
	assert.Equal(t, "services/b.js", target)
}

func TestResolver_NonRelativeSpecifiersAreExternal(t *testing.T) {
	t.Parallel()

	resolver := NewResolver([]string{"react.js", "os.py", "main.js"})

	for _, specifier := range []string{"react", "os", "lodash/merge", "app/main"} {
		_, ok := resolver.Resolve(specifier, "main.js")
		assert.False(t, ok, "specifier %q should not resolve", specifier)
	}
}

func TestResolver_PythonDottedSpecifiers(t *testing.T) {
	t.Parallel()

	resolver := NewResolver([]string{
		"pkg/app.py",
		"pkg/helpers.py",
		"shared/models.py",
		"pkg/sub/__init__.py",
	})

	// One leading dot anchors at the origin's directory.
	target, ok := resolver.Resolve(".helpers", "pkg/app.py")
	require.True(t, ok)
	assert.Equal(t, "pkg/helpers.py", target)

	// Each additional dot ascends one level; dotted segments become path
	// segments.
	target, ok = resolver.Resolve("..shared.models", "pkg/app.py")
	require.True(t, ok)
	assert.Equal(t, "shared/models.py", target)

	// Packages resolve through the __init__.py probe.
	target, ok = resolver.Resolve(".sub", "pkg/app.py")
	require.True(t, ok)
	assert.Equal(t, "pkg/sub/__init__.py", target)
}

func TestResolver_ProbeOrderPrefersExactMatch(t *testing.T) {
	t.Parallel()

	// Both "utils" (extensionless) and "utils.py" exist; the empty probe
	// comes first so the exact name wins.
	resolver := NewResolver([]string{"utils", "utils.py", "app.py"})

	target, ok := resolver.Resolve("./utils", "app.py")
	require.True(t, ok)
	assert.Equal(t, "utils", target)
}

func TestResolver_ProbeOrderPrefersPyOverJs(t *testing.T) {
	t.Parallel()

	resolver := NewResolver([]string{"shared.py", "shared.js", "app.py"})

	target, ok := resolver.Resolve("./shared", "app.py")
	require.True(t, ok)
	assert.Equal(t, "shared.py", target)
}

func TestResolver_IndexFileProbes(t *testing.T) {
	t.Parallel()

	resolver := NewResolver([]string{"components/index.ts", "app.ts"})

	target, ok := resolver.Resolve("./components", "app.ts")
	require.True(t, ok)
	assert.Equal(t, "components/index.ts", target)
}

func TestResolver_Deterministic(t *testing.T) {
	t.Parallel()

	resolver := NewResolver([]string{"shared.py", "shared.js", "app.py"})

	first, firstOK := resolver.Resolve("./shared", "app.py")
	second, secondOK := resolver.Resolve("./shared", "app.py")

	assert.Equal(t, first, second)
	assert.Equal(t, firstOK, secondOK)
}

func TestResolver_UnknownTargetFailsCleanly(t *testing.T) {
	t.Parallel()

	resolver := NewResolver([]string{"app.js"})

	_, ok := resolver.Resolve("./missing", "app.js")
	assert.False(t, ok)
}
