package config

import (
	"bytes"
	"io"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/keboola/pipeline-trigger/internal/pkg/model"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

// File is the optional YAML config file, for example:
//
//	host: gitlab.example.com
//	targets:
//	  - project: group/app
//	    ref: main
//	projects:
//	  - id: group/app
//	    name: Application
//	    refs: [main, develop]
//	variables:
//	  ENV: prod
//	cascade:
//	  enabled: true
//	  initialDelay: 10s
type File struct {
	Host            string         `yaml:"host"`
	Targets         model.Targets  `yaml:"targets"`
	Projects        []Project      `yaml:"projects"`
	Variables       yaml.Node      `yaml:"variables"`
	VariablePrefix  *string        `yaml:"variablePrefix"`
	Cascade         FileCascade    `yaml:"cascade"`
	RequestTimeout  *time.Duration `yaml:"requestTimeout"`
	ContinueOnError *bool          `yaml:"continueOnError"`
}

type FileCascade struct {
	Enabled      *bool          `yaml:"enabled"`
	InitialDelay *time.Duration `yaml:"initialDelay"`
	RetryDelay   *time.Duration `yaml:"retryDelay"`
	MaxAttempts  *int           `yaml:"maxAttempts"`
	PlayDelay    *time.Duration `yaml:"playDelay"`
}

// Project is a candidate for the interactive selection.
type Project struct {
	ID   string   `yaml:"id" validate:"required"`
	Name string   `yaml:"name"`
	Refs []string `yaml:"refs"`
}

func (p Project) String() string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name + " (" + p.ID + ")"
}

func LoadFile(fs afero.Fs, path string) (*File, error) {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf(`cannot read config file "%s": %w`, path, err)
	}

	file := &File{}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)
	if err := decoder.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf(`cannot parse config file "%s": %w`, path, err)
	}
	return file, nil
}

// PipelineVariables returns the "variables" mapping in the order from the file.
func (f *File) PipelineVariables() (model.Variables, error) {
	out := make(model.Variables, 0)
	node := &f.Variables
	switch node.Kind {
	case 0:
		return out, nil
	case yaml.MappingNode:
		// continue
	default:
		return nil, errors.Errorf(`"variables" must be a mapping, found line %d`, node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, errors.Errorf(`value of the variable "%s" must be a scalar, found line %d`, key.Value, value.Line)
		}
		out = out.Set(key.Value, value.Value)
	}
	return out, nil
}
