package main

import (
	"context"
	"encoding/json"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/glassechidna/statusrecorder/config"
	"github.com/glassechidna/statusrecorder/logging"
	"github.com/glassechidna/statusrecorder/recorder"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/glassechidna/statusrecorder/store"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"io"
)

type options struct {
	table    string
	sqlite   string
	logLevel string
}

type backend struct {
	store store.ReadWriter
	close func() error
}

func (o *options) open() (*backend, error) {
	if o.sqlite != "" {
		s, err := store.OpenSQLite(o.sqlite, 1)
		if err != nil {
			return nil, err
		}
		return &backend{store: s, close: s.Close}, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.table != "" {
		cfg.TableName = o.table
	}
	if err := cfg.Require(config.TableName); err != nil {
		return nil, errors.Wrap(err, "pass --table or --sqlite")
	}

	sess, err := cfg.NewSession()
	if err != nil {
		return nil, err
	}
	return &backend{
		store: store.NewDynamo(dynamodb.New(sess), cfg.TableName),
		close: func() error { return nil },
	}, nil
}

// withRecorder opens the backend for the duration of fn.
func (o *options) withRecorder(fn func(r *recorder.Recorder) error) error {
	log, err := logging.New(o.logLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	b, err := o.open()
	if err != nil {
		return err
	}
	defer b.close()

	return fn(recorder.New(b.store, status.NewNormalizer(), log))
}

func (o *options) withStore(fn func(s store.Reader) error) error {
	b, err := o.open()
	if err != nil {
		return err
	}
	defer b.close()

	return fn(b.store)
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "statusctl",
		Short:         "Record and inspect instance status records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.table, "table", "", "DynamoDB status table (defaults to $MODEL_INSTANCE_TABLE_NAME)")
	rootCmd.PersistentFlags().StringVar(&opts.sqlite, "sqlite", "", "Use a local SQLite file instead of DynamoDB")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(newRecordCommand(opts))
	rootCmd.AddCommand(newWorkflowCommand(opts))
	rootCmd.AddCommand(newGetCommand(opts))
	rootCmd.AddCommand(newNotifyPreviewCommand(opts))

	return rootCmd
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(v))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
