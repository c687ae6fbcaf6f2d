package env

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/keboola/pipeline-trigger/internal/pkg/log"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

// LoadDotEnv loads envs from ".env" files if exist. Existing envs take precedence.
func LoadDotEnv(ctx context.Context, logger log.Logger, osEnvs *Map, fs afero.Fs, dirs []string) *Map {
	envs := osEnvs.Clone()

	for _, dir := range dirs {
		for _, file := range Files() {
			path := filepath.Join(dir, file)
			info, err := fs.Stat(path)
			switch {
			case err == nil && info.IsDir():
				continue
			case err != nil && os.IsNotExist(err):
				continue
			case err != nil:
				logger.Warnf(ctx, `Cannot check if path "%s" exists: %s`, path, err)
				continue
			}

			fileEnvs, err := LoadEnvFile(fs, path)
			if err != nil {
				logger.Warn(ctx, err.Error())
				continue
			}
			logger.Infof(ctx, `Loaded env file "%s".`, path)

			// Merge ENVs, existing keys take precedence.
			envs.Merge(fileEnvs, false)
		}
	}

	return envs
}

func LoadEnvFile(fs afero.Fs, path string) (*Map, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf(`cannot read env file "%s": %w`, path, err)
	}

	envs, err := LoadEnvString(string(content))
	if err != nil {
		return nil, errors.Errorf(`cannot parse env file "%s": %w`, path, err)
	}

	return envs, nil
}

// LoadEnvString parses the content in the .env format, the order of the keys is kept.
func LoadEnvString(str string) (*Map, error) {
	values, err := godotenv.Unmarshal(str)
	if err != nil {
		return nil, err
	}

	// A line without "=" is parsed as a value with an empty key
	if value, found := values[""]; found {
		return nil, errors.Errorf(`invalid line "%s", expected format "KEY=VALUE"`, value)
	}

	// godotenv returns a map, the order is restored from the raw lines
	out := Empty()
	for _, key := range keysOrder(str) {
		if value, found := values[key]; found {
			out.Set(key, value)
			delete(values, key)
		}
	}
	for key, value := range values {
		out.Set(key, value)
	}
	return out, nil
}
