package main

import (
	"fmt"
	"github.com/glassechidna/statusrecorder/notify"
	"github.com/glassechidna/statusrecorder/recorder"
	"github.com/glassechidna/statusrecorder/status"
	"github.com/glassechidna/statusrecorder/store"
	"github.com/spf13/cobra"
)

func newRecordCommand(opts *options) *cobra.Command {
	e := &status.Event{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a generic status event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRecorder(func(r *recorder.Recorder) error {
				rec, err := r.HandleStatus(commandContext(cmd), e)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}

	cmd.Flags().StringVar(&e.InstanceID, "instance", "", "Instance id")
	cmd.Flags().StringVar(&e.State, "state", "", "Observed state")
	cmd.Flags().StringVar(&e.TxnID, "txn", "", "Correlation id (generated when empty)")
	cmd.Flags().StringVar(&e.Notify, "notify", "", "Address to notify")
	return cmd
}

func newWorkflowCommand(opts *options) *cobra.Command {
	item := &status.WorkItem{}

	cmd := &cobra.Command{
		Use:   "workflow",
		Short: "Record a workflow work-item event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withRecorder(func(r *recorder.Recorder) error {
				rec, err := r.HandleWorkflow(commandContext(cmd), &status.WorkflowEvent{WorkItem: item})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}

	cmd.Flags().StringVar(&item.WorkItemNo, "work-item", "", "Work item number")
	cmd.Flags().StringVar(&item.Status, "status", "", "Work item status")
	cmd.Flags().StringVar(&item.Memo, "memo", "", "Work item memo")
	return cmd
}

func newGetCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <instance-id>",
		Short: "Show the latest record for an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s store.Reader) error {
				rec, err := s.Get(commandContext(cmd), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rec)
			})
		},
	}
}

func newNotifyPreviewCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "notify-preview <instance-id>",
		Short: "Show the notification a write of the stored record would send",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withStore(func(s store.Reader) error {
				rec, err := s.Get(commandContext(cmd), args[0])
				if err != nil {
					return err
				}

				m, ok := notify.Evaluate(*rec)
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "no notification")
					return nil
				}
				return printJSON(cmd.OutOrStdout(), m)
			})
		},
	}
}
