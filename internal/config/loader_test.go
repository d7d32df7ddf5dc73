package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/isabelbroeder/unicycle-score-board/internal/config"
	"github.com/isabelbroeder/unicycle-score-board/internal/domain/panel"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8050")
				convey.So(cfg.DatabasePath, convey.ShouldEqual, "data/unicycle.db")
				convey.So(cfg.ShuffleSeed, convey.ShouldEqual, int64(0))
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("UNICYCLE_ADDR", ":8080")
			_ = os.Setenv("UNICYCLE_DATABASE_PATH", "/tmp/scores.db")
			_ = os.Setenv("UNICYCLE_COMPETITION_DAY", "2026-03-14")
			_ = os.Setenv("UNICYCLE_SHUFFLE_SEED", "42")
			_ = os.Setenv("UNICYCLE_SHUTDOWN_TIMEOUT", "10s")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DatabasePath, convey.ShouldEqual, "/tmp/scores.db")
				convey.So(cfg.CompetitionDay, convey.ShouldEqual, "2026-03-14")
				convey.So(cfg.ShuffleSeed, convey.ShouldEqual, int64(42))
				convey.So(cfg.ShutdownTimeout, convey.ShouldEqual, 10*time.Second)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
log_level: debug
competition_day: "2025-06-07"
panels:
  pair:
    t: 3
    p: 3
    d: 1
age_groups:
  large_group:
    - "15+"
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("UNICYCLE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Panels["pair"], convey.ShouldResemble, panel.Size{Technique: 3, Presentation: 3, Dismount: 1})
				convey.So(cfg.Panels["large_group"], convey.ShouldResemble, panel.Size{Technique: 4, Presentation: 4, Dismount: 4})
				convey.So(cfg.AgeGroups["large_group"], convey.ShouldResemble, []string{"15+"})
				convey.So(cfg.AgeGroups["pair"], convey.ShouldResemble, []string{"U13", "U15", "15+"})
			})

			convey.Convey("Then env vars still take precedence over the file", func() {
				_ = os.Setenv("UNICYCLE_ADDR", ":7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("UNICYCLE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldWrap, config.ErrLoadConfig)
			})
		})

		convey.Convey("When an env var holds an invalid value", func() {
			_ = os.Setenv("UNICYCLE_COMPETITION_DAY", "tomorrow")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then validation rejects it", func() {
				convey.So(err, convey.ShouldWrap, config.ErrInvalidConfig)
			})
		})
	})
}

func createTempConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearConfigEnvVars() {
	for _, name := range []string{
		"UNICYCLE_CONFIG",
		"UNICYCLE_ADDR",
		"UNICYCLE_LOG_LEVEL",
		"UNICYCLE_DATABASE_PATH",
		"UNICYCLE_COMPETITION_DAY",
		"UNICYCLE_JURY_PASSWORD_HASH",
		"UNICYCLE_SHUFFLE_SEED",
		"UNICYCLE_SHUTDOWN_TIMEOUT",
	} {
		_ = os.Unsetenv(name)
	}
}
