package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/biu7/redis-dict/errors"
	"github.com/biu7/redis-dict/storage"
	"github.com/spf13/cobra"
)

// parseValue keeps valid JSON as is and quotes everything else
func parseValue(arg string) (json.RawMessage, error) {
	if json.Valid([]byte(arg)) {
		return json.RawMessage(arg), nil
	}
	quoted, err := json.Marshal(arg)
	if err != nil {
		return nil, err
	}
	return quoted, nil
}

func setCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValue(args[1])
			if err != nil {
				return err
			}
			if err := s.store.Set(cmd.Context(), args[0], value); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func getCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := s.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", value)
			return nil
		},
	}
}

func delCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "del [key...]",
		Short: "Deletes one or more keys, missing keys are ignored",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, key := range args {
				if err := s.store.Delete(cmd.Context(), key); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func hasCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "has [key]",
		Short: "Checks if a key exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := s.store.Contains(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func lenCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "len",
		Short: "Counts the keys of the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := s.store.Len(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func keysCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Lists the keys of the namespace in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := s.store.Keys(cmd.Context())
			if err != nil {
				return err
			}
			sort.Strings(keys)
			for _, key := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
			return nil
		},
	}
}

func itemsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "Lists key value pairs of the namespace in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := s.store.Items(cmd.Context())
			if err != nil {
				return err
			}
			sort.Slice(items, func(i, j int) bool {
				return items[i].Key < items[j].Key
			})
			for _, item := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", item.Key, item.Value)
			}
			return nil
		},
	}
}

func clearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Deletes every key of the namespace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := s.store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
}

func ttlCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "ttl [key]",
		Short: "Shows the remaining expiry of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ttl, err := s.store.TTL(cmd.Context(), args[0])
			if errors.Is(err, errors.ErrKeyNotFound) {
				fmt.Fprintln(cmd.OutOrStdout(), "not found")
				return nil
			}
			if err != nil {
				return err
			}
			if ttl == storage.NoExpiry {
				fmt.Fprintln(cmd.OutOrStdout(), "no expiry")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), ttl)
			return nil
		},
	}
}
