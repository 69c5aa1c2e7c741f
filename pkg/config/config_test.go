package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

func TestLoadDefaults(t *testing.T) {
	g := NewWithT(t)

	cfg, err := Load(t.TempDir())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.StampDir).To(Equal("out"))
	g.Expect(cfg.Manifest).To(BeEmpty())
	g.Expect(cfg.Log.Level).To(Equal("info"))
	g.Expect(cfg.Log.JSON).To(BeFalse())
	g.Expect(cfg.Validate()).To(Succeed())
	g.Expect(cfg.LogLevel()).To(Equal(zerolog.InfoLevel))
}

func TestLoadFileAndEnv(t *testing.T) {
	g := NewWithT(t)
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, FileName), []byte("stamp_dir = \"build/stamps\"\nmanifest = \"bootstrap.star\"\n"), 0o644)
	g.Expect(err).NotTo(HaveOccurred())

	cfg, err := Load(root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.StampDir).To(Equal("build/stamps"))
	g.Expect(cfg.Manifest).To(Equal("bootstrap.star"))

	t.Setenv("BOOTSTRAP_STAMP_DIR", "env-stamps")
	cfg, err = Load(root)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.StampDir).To(Equal("env-stamps"))
	g.Expect(cfg.Manifest).To(Equal("bootstrap.star"))
}

func TestValidate(t *testing.T) {
	g := NewWithT(t)

	cfg := &Config{StampDir: "out"}
	cfg.Log.Level = "loud"
	g.Expect(cfg.Validate()).To(MatchError(ContainSubstring("log.level")))

	cfg.Log.Level = "debug"
	g.Expect(cfg.Validate()).To(Succeed())
	g.Expect(cfg.LogLevel()).To(Equal(zerolog.DebugLevel))

	cfg.StampDir = ""
	g.Expect(cfg.Validate()).To(MatchError(ContainSubstring("stamp_dir")))
}
