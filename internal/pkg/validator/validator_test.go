package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Host    string       `yaml:"host" validate:"required"`
	Token   string       `yaml:"-" validate:"required"`
	Targets []testTarget `yaml:"targets" validate:"required,dive"`
	Nested  testNested   `yaml:"nested"`
	testEmbedded
}

type testTarget struct {
	Project string `yaml:"project" validate:"required"`
	Ref     string `yaml:"ref" validate:"required"`
}

type testNested struct {
	MaxAttempts int `yaml:"maxAttempts" validate:"gte=1"`
}

type testEmbedded struct {
	Prefix string `yaml:"prefix" validate:"required"`
}

func TestValidate(t *testing.T) {
	t.Parallel()
	value := testConfig{Targets: []testTarget{{Project: "a"}, {Ref: "main"}}}
	err := Validate(context.Background(), value)
	expected := `
- host is a required field
- Token is a required field
- targets[0].ref is a required field
- targets[1].project is a required field
- nested.maxAttempts must be 1 or greater
- prefix is a required field
`
	require.Error(t, err)
	assert.Equal(t, strings.TrimSpace(expected), err.Error())
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	value := testConfig{
		Host:         "gitlab.com",
		Token:        "token",
		Targets:      []testTarget{{Project: "a", Ref: "main"}},
		Nested:       testNested{MaxAttempts: 1},
		testEmbedded: testEmbedded{Prefix: "P_"},
	}
	assert.NoError(t, Validate(context.Background(), value))
}

func TestValidate_CustomRule(t *testing.T) {
	t.Parallel()
	rule := Validation{
		Tag: "gitlab_host",
		Func: func(fl validator.FieldLevel) bool {
			return !strings.Contains(fl.Field().String(), " ")
		},
		ErrorMsg: "{0} is not a valid host",
	}

	type value struct {
		Host string `yaml:"host" validate:"gitlab_host"`
	}

	err := Validate(context.Background(), value{Host: "invalid host"}, rule)
	require.Error(t, err)
	assert.Equal(t, "host is not a valid host", err.Error())
	assert.NoError(t, Validate(context.Background(), value{Host: "gitlab.com"}, rule))
}
