package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ngld/bootstrap/pkg/bootstrap"
)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(args ...string) (string, string, error) {
	resetFlags(rootCmd)
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func newProject(t *testing.T, cmd string) string {
	t.Helper()
	root := t.TempDir()
	manifest := "actions:\n  - name: generate\n    input: gen.txt\n    cmd: " + cmd + "\n"
	if err := os.WriteFile(filepath.Join(root, "bootstrap.yml"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	input := filepath.Join(root, "gen.txt")
	if err := os.WriteFile(input, []byte("input"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(input, past, past); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestBootstrapLifecycle(t *testing.T) {
	g := NewWithT(t)
	root := newProject(t, "[echo, generated]")
	stamp := filepath.Join(root, "out", "gen.txt.stamp")

	_, _, err := execute("check", "--root", root, "--manifest", "bootstrap.yml")
	var outOfDate *bootstrap.OutOfDateError
	g.Expect(errors.As(err, &outOfDate)).To(BeTrue())
	g.Expect(exitStatus(err)).To(Equal(1))

	stdout, stderr, err := execute("--root", root, "--manifest", "bootstrap.yml", "-n")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(BeEmpty())
	g.Expect(stderr).To(ContainSubstring("Out-of-date: generate"))
	g.Expect(stderr).To(ContainSubstring("(skipping: dry run) -> echo generated"))
	_, err = os.Stat(stamp)
	g.Expect(os.IsNotExist(err)).To(BeTrue())

	stdout, stderr, err = execute("--root", root, "--manifest", "bootstrap.yml", "--verbose")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("generated\n"))
	g.Expect(stderr).To(ContainSubstring(" -> echo generated"))
	_, err = os.Stat(stamp)
	g.Expect(err).NotTo(HaveOccurred())

	_, stderr, err = execute("--root", root, "--manifest", "bootstrap.yml")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stderr).To(ContainSubstring("Up-to-date: generate"))

	_, _, err = execute("check", "--root", root, "--manifest", "bootstrap.yml")
	g.Expect(err).NotTo(HaveOccurred())

	stdout, _, err = execute("status", "--root", root, "--manifest", "bootstrap.yml")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(MatchRegexp(`\* generate:\s+up-to-date\s+out/gen\.txt\.stamp \(`))
}

func TestBootstrapUsesManifestFromRoot(t *testing.T) {
	g := NewWithT(t)
	root := newProject(t, "[echo, generated]")

	stdout, stderr, err := execute("--root", root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(Equal("generated\n"))
	g.Expect(stderr).To(ContainSubstring("Out-of-date: generate"))
	g.Expect(stderr).NotTo(ContainSubstring("npm packages"))

	_, _, err = execute("check", "--root", root)
	g.Expect(err).NotTo(HaveOccurred())
}

func TestSubcommandsAcceptVerbose(t *testing.T) {
	g := NewWithT(t)
	root := newProject(t, "[echo, generated]")

	_, stderr, err := execute("check", "-v", "--root", root)
	var outOfDate *bootstrap.OutOfDateError
	g.Expect(errors.As(err, &outOfDate)).To(BeTrue())
	g.Expect(stderr).To(ContainSubstring("project root " + root))

	stdout, _, err := execute("status", "--verbose", "--root", root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stdout).To(ContainSubstring("out-of-date"))
}

func TestBootstrapCommandFailure(t *testing.T) {
	g := NewWithT(t)
	root := newProject(t, "[exit, \"4\"]")

	_, _, err := execute("--root", root, "--manifest", "bootstrap.yml", "--stamp-dir", "stamps")
	var cmdErr *bootstrap.CommandError
	g.Expect(errors.As(err, &cmdErr)).To(BeTrue())
	g.Expect(exitStatus(err)).To(Equal(4))

	_, err = os.Stat(filepath.Join(root, "stamps"))
	g.Expect(os.IsNotExist(err)).To(BeTrue())
}

func TestBootstrapJSONLogs(t *testing.T) {
	g := NewWithT(t)
	root := newProject(t, "[\"true\"]")

	_, stderr, err := execute("--root", root, "--manifest", "bootstrap.yml", "--log-json")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(stderr).To(ContainSubstring(`"message":"Out-of-date: generate"`))
	g.Expect(stderr).To(ContainSubstring(`"run":"`))
}

func TestBootstrapMissingInput(t *testing.T) {
	g := NewWithT(t)
	root := newProject(t, "[\"true\"]")
	g.Expect(os.Remove(filepath.Join(root, "gen.txt"))).To(Succeed())

	for _, args := range [][]string{
		{"--root", root, "--manifest", "bootstrap.yml"},
		{"check", "--root", root, "--manifest", "bootstrap.yml"},
	} {
		_, _, err := execute(args...)
		var missing *bootstrap.MissingInputError
		g.Expect(errors.As(err, &missing)).To(BeTrue())
		g.Expect(missing.Path).To(Equal(filepath.Join(root, "gen.txt")))
	}
}

func TestPrintError(t *testing.T) {
	g := NewWithT(t)
	buf := &bytes.Buffer{}

	printError(buf, &bootstrap.OutOfDateError{Action: "npm packages"})
	g.Expect(buf.String()).To(ContainSubstring(`setup is not complete ("npm packages" is out-of-date)`))
	g.Expect(exitStatus(errors.New("boom"))).To(Equal(1))
	g.Expect(exitStatus(&bootstrap.CommandError{ExitCode: -1})).To(Equal(1))
}
