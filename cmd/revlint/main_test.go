package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestExecute(t *testing.T) {
	tests := []struct {
		name    string
		run     func(cmd *cobra.Command, args []string) error
		wantErr string
	}{
		{
			name: "success",
			run:  func(cmd *cobra.Command, args []string) error { return nil },
		},
		{
			name:    "returned error",
			run:     func(cmd *cobra.Command, args []string) error { return errors.New("store unavailable") },
			wantErr: "store unavailable",
		},
		{
			name:    "panic becomes error",
			run:     func(cmd *cobra.Command, args []string) error { panic("nil catalog") },
			wantErr: "unexpected fault: nil catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{
				Use:           "revlint",
				RunE:          tt.run,
				SilenceUsage:  true,
				SilenceErrors: true,
			}
			cmd.SetArgs([]string{})

			err := execute(cmd)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
