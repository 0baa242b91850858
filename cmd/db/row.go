package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newInsertCmd(g *Global) *cobra.Command {
	var (
		set    []string
		unique []string
	)
	cmd := &cobra.Command{
		Use:   "insert NAME",
		Short: "insert a row, optionally skipping duplicates",
		Args:  cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, args []string, s *session) error {
			row, err := parseSet(set)
			if err != nil {
				return err
			}
			ok, err := s.db.Insert(cmd.Context(), args[0], row, unique...)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "duplicate, skipped")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "inserted")
			return nil
		}),
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "column=value, repeatable")
	cmd.Flags().StringSliceVar(&unique, "unique", nil, "columns that must not already hold these values")
	return cmd
}

func newExistsCmd(g *Global) *cobra.Command {
	var (
		set    []string
		unique []string
	)
	cmd := &cobra.Command{
		Use:   "exists NAME",
		Short: "report whether a row with the unique values exists",
		Args:  cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, args []string, s *session) error {
			row, err := parseSet(set)
			if err != nil {
				return err
			}
			dup, err := s.db.IsDuplicate(cmd.Context(), args[0], row, unique)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dup)
			return nil
		}),
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "column=value, repeatable")
	cmd.Flags().StringSliceVar(&unique, "unique", nil, "columns to compare")
	return cmd
}

func newUpdateCmd(g *Global) *cobra.Command {
	var (
		set   []string
		where string
		args  []string
	)
	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "update rows matching --where",
		Args:  cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, a []string, s *session) error {
			if where == "" {
				return errors.New("--where is required")
			}
			row, err := parseSet(set)
			if err != nil {
				return err
			}
			n, err := s.db.Update(cmd.Context(), a[0], row, where, toArgs(args)...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows updated\n", n)
			return nil
		}),
	}
	cmd.Flags().StringArrayVar(&set, "set", nil, "column=value, repeatable")
	cmd.Flags().StringVar(&where, "where", "", "condition with ? placeholders")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "value bound to a placeholder in --where, repeatable")
	return cmd
}

func newDeleteCmd(g *Global) *cobra.Command {
	var (
		where string
		args  []string
	)
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "delete rows matching --where",
		Args:  cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, a []string, s *session) error {
			if where == "" {
				return errors.New("--where is required")
			}
			n, err := s.db.Delete(cmd.Context(), a[0], where, toArgs(args)...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows deleted\n", n)
			return nil
		}),
	}
	cmd.Flags().StringVar(&where, "where", "", "condition with ? placeholders")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "value bound to a placeholder in --where, repeatable")
	return cmd
}

func newSelectCmd(g *Global) *cobra.Command {
	var (
		columns string
		where   string
		args    []string
	)
	cmd := &cobra.Command{
		Use:   "select NAME",
		Short: "print matching rows as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: g.withDB(func(cmd *cobra.Command, a []string, s *session) error {
			var cols []string
			if columns != "" {
				cols = strings.Split(columns, ",")
			}
			rows, err := s.db.Select(cmd.Context(), a[0], cols, where, toArgs(args)...)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, r := range rows {
				if err := enc.Encode(r); err != nil {
					return err
				}
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&columns, "columns", "", "comma separated columns, all when empty")
	cmd.Flags().StringVar(&where, "where", "", "condition with ? placeholders")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "value bound to a placeholder in --where, repeatable")
	return cmd
}
