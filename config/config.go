// Package config reads the process-wide settings once at startup.
package config

import (
	goenv "github.com/Netflix/go-env"
	"github.com/aws/aws-sdk-go/aws/credentials/stscreds"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/pkg/errors"
	"strings"
)

const (
	TableName                = "MODEL_INSTANCE_TABLE_NAME"
	SenderAddress            = "SENDER_ADDRESS"
	RecorderFunction         = "RECORDER_FUNCTION_NAME"
	WorkflowRecorderFunction = "WORKFLOW_RECORDER_FUNCTION_NAME"
)

type Config struct {
	TableName                string `env:"MODEL_INSTANCE_TABLE_NAME"`
	SenderAddress            string `env:"SENDER_ADDRESS"`
	RecorderFunction         string `env:"RECORDER_FUNCTION_NAME"`
	WorkflowRecorderFunction string `env:"WORKFLOW_RECORDER_FUNCTION_NAME"`
	DeadLetterBucket         string `env:"DEAD_LETTER_BUCKET"`
	DeadLetterPrefix         string `env:"DEAD_LETTER_PREFIX,default=rejected/"`
	DispatchConcurrency      int    `env:"DISPATCH_CONCURRENCY,default=8"`
	LogLevel                 string `env:"LOG_LEVEL,default=info"`
	AWSProfile               string `env:"AWS_PROFILE"`
}

func Load() (*Config, error) {
	c := &Config{}
	_, err := goenv.UnmarshalFromEnviron(c)
	if err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}
	return c, nil
}

func FromEnvSet(es goenv.EnvSet) (*Config, error) {
	c := &Config{}
	err := goenv.Unmarshal(es, c)
	if err != nil {
		return nil, errors.Wrap(err, "reading environment")
	}
	return c, nil
}

// Require fails when any of the named variables is unset. Each binary names
// the ones it cannot run without.
func (c *Config) Require(names ...string) error {
	values := map[string]string{
		TableName:                c.TableName,
		SenderAddress:            c.SenderAddress,
		RecorderFunction:         c.RecorderFunction,
		WorkflowRecorderFunction: c.WorkflowRecorderFunction,
	}

	var missing []string
	for _, name := range names {
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}
	return nil
}

// NewSession honours AWS_PROFILE so the binaries also run from a workstation.
func (c *Config) NewSession() (*session.Session, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Profile:                 c.AWSProfile,
		SharedConfigState:       session.SharedConfigEnable,
		AssumeRoleTokenProvider: stscreds.StdinTokenProvider,
	})
	return sess, errors.WithStack(err)
}
