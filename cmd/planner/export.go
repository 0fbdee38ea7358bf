package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nhle/month-planner/internal/model"
	"github.com/nhle/month-planner/internal/store"
)

func exportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the stored tasks as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			backend, err := openBackend(cfg.Storage)
			if err != nil {
				return err
			}
			defer backend.Close()

			tasks, err := store.NewBackendPersister(backend).LoadTasks(cmd.Context())
			if err != nil && !errors.Is(err, store.ErrNoPayload) {
				return fmt.Errorf("loading tasks: %w", err)
			}
			return writeExport(cmd.OutOrStdout(), tasks)
		},
	}
}

func writeExport(w io.Writer, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}
