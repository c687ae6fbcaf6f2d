package dependencies

import (
	"github.com/keboola/pipeline-trigger/internal/pkg/gitlab"
	"github.com/keboola/pipeline-trigger/internal/pkg/utils/errors"
)

// platform dependencies container implements Platform interface.
type platform struct {
	Base
	host string
	api  gitlab.API
}

func NewPlatformDeps(base Base, host, token string, opts ...gitlab.Option) (Platform, error) {
	return newPlatformDeps(base, host, token, opts...)
}

func newPlatformDeps(base Base, host, token string, opts ...gitlab.Option) (*platform, error) {
	switch {
	case host == "":
		return nil, errors.New("platform host is not set")
	case token == "":
		return nil, errors.New("platform token is not set")
	}

	opts = append([]gitlab.Option{gitlab.WithLogger(base.Logger())}, opts...)
	client := gitlab.NewClient(host, token, opts...)
	return &platform{Base: base, host: client.BaseURL(), api: client}, nil
}

func (v *platform) PlatformHost() string {
	return v.host
}

func (v *platform) PipelineAPI() gitlab.API {
	return v.api
}
