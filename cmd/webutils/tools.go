package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oszuidwest/zwfm-webutils/internal/archive"
	"github.com/oszuidwest/zwfm-webutils/internal/jsonpatch"
	"github.com/oszuidwest/zwfm-webutils/internal/text"
)

func newZipCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "zip [flags] FILE...",
		Short: "Create a password protected archive in the scratch storage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := openStorage()
			if err != nil {
				return err
			}

			svc := archive.NewService(store)
			var zipPath string
			if name == "" && len(args) == 1 {
				zipPath, err = svc.CreateFileWithPassword(args[0], password)
			} else {
				zipPath, err = svc.CreateWithPassword(name, args, password)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), zipPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "archive name without extension (defaults to the file name for a single file)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for the entries, empty for no encryption")
	return cmd
}

func newProtectCmd() *cobra.Command {
	var current, password string

	cmd := &cobra.Command{
		Use:   "protect [flags] ARCHIVE",
		Short: "Encrypt every entry of an existing archive with a new password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := archive.PasswordProtect(args[0], current, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current-password", "", "password of an already encrypted archive")
	cmd.Flags().StringVarP(&password, "password", "p", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newReplaceCmd() *cobra.Command {
	var keyword, replacement string

	cmd := &cobra.Command{
		Use:   "replace [flags] [TEXT...]",
		Short: "Replace a keyword in its lower, capitalized and upper case forms",
		Long:  "Replace a keyword in TEXT, or in standard input when no TEXT is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := argsOrStdin(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text.ReplaceKeyword(input, keyword, replacement))
			return nil
		},
	}

	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "keyword to replace")
	cmd.Flags().StringVarP(&replacement, "with", "w", "", "replacement text")
	_ = cmd.MarkFlagRequired("keyword")
	return cmd
}

func newInjectCmd() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "inject [flags] [DOCUMENT]",
		Short: "Set top-level properties on a JSON object",
		Long: "Set top-level properties on the JSON object DOCUMENT, or on standard input when\n" +
			"no DOCUMENT is given. Values that parse as JSON are inserted as such, anything\n" +
			"else is inserted as a string.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := argsOrStdin(cmd, args)
			if err != nil {
				return err
			}

			props, err := parseSets(sets)
			if err != nil {
				return err
			}

			out, err := jsonpatch.InjectRawProperties(strings.TrimSpace(doc), props)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "property as key=value, repeatable")
	return cmd
}

// parseSets turns key=value pairs into serialized properties. Values that are
// valid JSON are kept verbatim, anything else becomes a JSON string.
func parseSets(sets []string) (map[string]json.RawMessage, error) {
	props := make(map[string]json.RawMessage, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", s)
		}
		if jsonpatch.Valid(raw) {
			props[key] = json.RawMessage(raw)
		} else {
			props[key] = json.RawMessage(jsonpatch.Serialize(raw))
		}
	}
	return props, nil
}

func argsOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
