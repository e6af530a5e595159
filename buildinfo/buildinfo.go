// Package buildinfo exposes the name, description and version embedded into
// the binary.
package buildinfo

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// AppInfo provides static data about the running application
type AppInfo struct {
	buildInfo

	Name            string `yaml:"name"`
	URL             string `yaml:"url"`
	ReverseDNS      string `yaml:"reverse_dns"`
	Vendor          string `yaml:"vendor"`
	Description     string `yaml:"description"`
	FullDescription string `yaml:"full_description"`
}

type buildInfo struct {
	Version    string    `yaml:"version"`
	CommitHash string    `yaml:"commit_hash"`
	BuildTime  time.Time `yaml:"build_time"`
}

// App is populated from the embedded YAML at startup.
var App AppInfo

// All is the one-line version string shown by --version.
var All string

// build.yml is rewritten by release builds; the checked-in copy describes a
// development build.

//go:embed app.yml
var app []byte

//go:embed build.yml
var build []byte

func init() {
	err := parse(app, build, &App)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to parse embedded app info")
	}

	All = App.VersionString()
}

// VersionString formats the version, commit and build time.
func (a AppInfo) VersionString() string {
	return fmt.Sprintf("%s (%s at %s)", a.Version, a.CommitHash, a.BuildTime.Format(time.RFC3339))
}

func parse(appYAML, buildYAML []byte, info *AppInfo) error {
	err := yaml.Unmarshal(appYAML, info)
	if err != nil {
		return fmt.Errorf("app info: %w", err)
	}

	err = yaml.Unmarshal(buildYAML, &info.buildInfo)
	if err != nil {
		return fmt.Errorf("build info: %w", err)
	}

	return nil
}
