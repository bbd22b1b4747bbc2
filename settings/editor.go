package settings

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
)

const perforceSection = "PerforceSourceControl.PerforceSourceControlSettings"

// EditorConfigPath returns the SourceControlSettings.ini the editor writes
// under Saved/Config/<platformToken>.
func EditorConfigPath(savedDir, platformToken string) string {
	return filepath.Join(savedDir, "Config", platformToken, "SourceControlSettings.ini")
}

// CachedPerforce reads the Perforce connection the editor's source control
// provider was last configured with:
//
//	[PerforceSourceControl.PerforceSourceControlSettings]
//	Port=
//	UserName=
//	Workspace=
func CachedPerforce(savedDir, platformToken string) (Connection, error) {
	path := EditorConfigPath(savedDir, platformToken)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Connection{}, errors.Wrapf(ErrNotFound, "%s", path)
	}

	cfg, err := ini.Load(path)
	if err != nil {
		return Connection{}, errors.Wrapf(err, "failed to read %s", path)
	}

	section, err := cfg.GetSection(perforceSection)
	if err != nil {
		return Connection{}, errors.Wrapf(err, "no Perforce settings in %s", path)
	}

	return Connection{
		Port:   section.Key("Port").String(),
		User:   section.Key("UserName").String(),
		Client: section.Key("Workspace").String(),
	}, nil
}
