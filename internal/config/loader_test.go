package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/config"
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
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SourceKind, convey.ShouldEqual, config.SourceHTTP)
				convey.So(cfg.PlayersDocument, convey.ShouldEqual, "all_data.json")
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("IQB_ADDR", ":8080")
			_ = os.Setenv("IQB_SOURCE_KIND", "file")
			_ = os.Setenv("IQB_SOURCE_DIR", "/srv/data")
			_ = os.Setenv("IQB_FETCH_WORKERS", "16")
			_ = os.Setenv("IQB_SESSION_TTL_S", "60")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SourceKind, convey.ShouldEqual, config.SourceFile)
				convey.So(cfg.SourceDir, convey.ShouldEqual, "/srv/data")
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 16)
				convey.So(cfg.SessionTTL().Seconds(), convey.ShouldEqual, 60)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
source_kind: s3
s3_bucket: snapshots
s3_prefix: data/
fetch_workers: 8
refresh_interval_s: 120
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("IQB_CONFIG", tmpFile)
			_ = os.Setenv("IQB_FETCH_WORKERS", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SourceKind, convey.ShouldEqual, config.SourceS3)
				convey.So(cfg.S3Bucket, convey.ShouldEqual, "snapshots")
				convey.So(cfg.S3Prefix, convey.ShouldEqual, "data/")
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 2)
				convey.So(cfg.RefreshInterval().Minutes(), convey.ShouldEqual, 2)
				convey.So(cfg.Locale, convey.ShouldEqual, "ru")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("IQB_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("IQB_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("IQB_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When the s3 source has no bucket", func() {
			_ = os.Setenv("IQB_SOURCE_KIND", "s3")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "s3_bucket")
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("IQB_FETCH_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"IQB_CONFIG",
		"IQB_ADDR",
		"IQB_SOURCE_KIND",
		"IQB_SOURCE_DIR",
		"IQB_FETCH_WORKERS",
		"IQB_SESSION_TTL_S",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "iqboard-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
