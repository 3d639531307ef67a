package integration

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCLIForIntegration(t *testing.T) string {
	t.Helper()
	repoRoot := filepath.Clean(filepath.Join("..", ".."))
	binDir := t.TempDir()
	binName := "hbstree"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	binPath := filepath.Join(binDir, binName)

	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = repoRoot
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(out))

	return binPath
}

// headlessEnv returns a minimal environment with HOME pointing at home and
// CI enabled so nothing prompts.
func headlessEnv(home string) []string {
	return []string{
		"HOME=" + home,
		"USERPROFILE=" + home,
		"PATH=" + os.Getenv("PATH"),
		"CI=true",
		"NO_COLOR=1",
	}
}

func runCLI(t *testing.T, binPath string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binPath, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestHeadless_FullWorkflow(t *testing.T) {
	binPath := buildCLIForIntegration(t)
	home := t.TempDir()
	repoDir := t.TempDir()
	env := headlessEnv(home)

	out, err := runCLI(t, binPath, env, "init", "--root", repoDir, "--with", "partials,helpers,data")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(repoDir, "hbstree.yaml"))

	out, err = runCLI(t, binPath, env, "validate", "--root", repoDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Validation passed")

	out, err = runCLI(t, binPath, env, "doctor", "--root", repoDir)
	require.NoError(t, err, out)

	out, err = runCLI(t, binPath, env, "build", "--root", repoDir)
	require.NoError(t, err, out)

	rendered, err := os.ReadFile(filepath.Join(repoDir, "dist", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "<h1>Welcome</h1>")
	assert.Contains(t, string(rendered), "HELLO")

	out, err = runCLI(t, binPath, env, "history", "--limit", "10")
	require.NoError(t, err, out)
	for _, op := range []string{"op=init", "op=validate", "op=doctor", "op=build"} {
		assert.Contains(t, out, op)
	}
}

func TestHeadless_ExitCodes(t *testing.T) {
	binPath := buildCLIForIntegration(t)
	env := headlessEnv(t.TempDir())

	empty := t.TempDir()
	out, err := runCLI(t, binPath, env, "build", "--root", empty)
	assert.Equal(t, 4, exitCode(err), out)

	broken := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(broken, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "hbstree.yaml"), []byte("apiVersion: hbstree/v1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(broken, "src", "index.hbs"), []byte("{{#if}}"), 0o644))
	out, err = runCLI(t, binPath, env, "build", "--root", broken)
	assert.Equal(t, 3, exitCode(err), out)
	assert.True(t, strings.Contains(out, "index.hbs"), out)

	invalid := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(invalid, "hbstree.yaml"), []byte("apiVersion: hbstree/v2\n"), 0o644))
	out, err = runCLI(t, binPath, env, "validate", "--root", invalid)
	assert.Equal(t, 2, exitCode(err), out)
}
