package main

import (
	"encoding/json"
	"fmt"
	"io"

	"safefetch/internal/domain/entity"
	fetchuc "safefetch/internal/usecase/fetch"

	"github.com/spf13/cobra"
)

type validationOutput struct {
	URL       string   `json:"url"`
	Valid     bool     `json:"valid"`
	Error     string   `json:"error,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

type fetchOutput struct {
	URL    string              `json:"url"`
	Result *entity.FetchResult `json:"result,omitempty"`
	Error  *fetchError         `json:"error,omitempty"`
}

type fetchError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func newValidateCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <url>...",
		Short: "Check URLs against the network policy without fetching them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, rt, err := setup(cmd)
			if err != nil {
				return err
			}

			out := make([]validationOutput, 0, len(args))
			failed := false
			for _, raw := range args {
				v := rt.validator.Validate(ctx, raw)
				o := validationOutput{URL: raw, Valid: v.Valid, Error: v.ErrorMessage}
				for _, addr := range v.Addresses {
					o.Addresses = append(o.Addresses, addr.String())
				}
				failed = failed || !v.Valid
				out = append(out, o)
			}

			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if failed {
				return errFailures
			}
			return nil
		},
	}
}

func newFetchCmd(setup setupFunc) *cobra.Command {
	var (
		textOnly    bool
		mainContent bool
		markdown    bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Fetch URLs and print the reduced content as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if concurrency < 1 {
				return fmt.Errorf("invalid concurrency %d: must be at least 1", concurrency)
			}

			ctx, rt, err := setup(cmd)
			if err != nil {
				return err
			}

			reqs := make([]fetchuc.Request, len(args))
			for i, raw := range args {
				reqs[i] = fetchuc.Request{
					URL:                raw,
					TextOnly:           textOnly,
					ExtractMainContent: mainContent,
					Markdown:           markdown,
				}
			}

			items := rt.fetch.FetchAll(ctx, reqs, concurrency)
			out := make([]fetchOutput, len(items))
			failed := false
			for i, item := range items {
				out[i] = fetchOutput{URL: item.Request.URL, Result: item.Result}
				if item.Err != nil {
					failed = true
					out[i].Error = toFetchError(item.Err)
				}
			}

			if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if failed {
				return errFailures
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&textOnly, "text-only", false, "Return visible text instead of cleaned HTML")
	cmd.Flags().BoolVar(&mainContent, "main-content", false, "Extract the main content region")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render content as Markdown (ignored with --text-only)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Maximum number of fetches in flight")
	return cmd
}

func toFetchError(err error) *fetchError {
	if f, ok := fetchuc.AsFailure(err); ok {
		return &fetchError{Status: f.StatusCode, Message: f.Message}
	}
	return &fetchError{Status: 500, Message: "An error occurred: " + err.Error()}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
