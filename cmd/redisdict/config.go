package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alicebob/miniredis/v2"
	dict "github.com/biu7/redis-dict"
	"github.com/biu7/redis-dict/errors"
	"github.com/biu7/redis-dict/serializer"
	"github.com/biu7/redis-dict/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to wrap the help text at
	Wrap int = 50

	envPrefix = "redisdict"
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		if lineWidth > 0 && lineWidth+1+len(word) > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}
		currentLine.WriteString(word)
		lineWidth += len(word)
	}
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// session holds the state of one command invocation
type session struct {
	v        *viper.Viper
	embedded *miniredis.Miniredis
	remote   *storage.Redis
	store    *dict.Dict[string, json.RawMessage]
}

func newSession() *session {
	return &session{v: viper.New()}
}

// setupFlags adds the connection flags shared by every subcommand
func setupFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.String("url", "", WrapString("redis:// URL of the server, takes precedence over host and port"))
	flags.String("host", "localhost", WrapString("Redis host"))
	flags.Int("port", 6379, WrapString("Redis port"))
	flags.StringP("namespace", "n", "default", WrapString("namespace of the mapping, keys are stored as {namespace}_{key}"))
	flags.Duration("expiry", 0, WrapString("expiry applied to every write, 0 means no expiry"))
	flags.String("serializer", "json", WrapString("serializer to use (json, std, msgpack)"))
	flags.Bool("embedded", false, WrapString("run against a throwaway in-process Redis server"))
	flags.BoolP("verbose", "v", false, WrapString("log remote writes to stderr"))
}

// initConfig loads .env files and binds REDISDICT_* environment variables
func (s *session) initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	s.v.SetEnvPrefix(envPrefix)
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()
}

// open binds the command flags and opens the mapping
func (s *session) open(cmd *cobra.Command) error {
	if err := s.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	srl, err := s.serializer()
	if err != nil {
		return err
	}

	opts := []dict.Option{
		dict.WithSerializer(srl),
		dict.WithExpiry(s.v.GetDuration("expiry")),
		dict.WithLogger(s.logger(cmd)),
	}

	switch {
	case s.v.GetBool("embedded"):
		s.embedded, err = miniredis.Run()
		if err != nil {
			return fmt.Errorf("start embedded redis: %w", err)
		}
		if s.remote, err = storage.NewRedis("redis://" + s.embedded.Addr()); err != nil {
			return err
		}
		opts = append(opts, dict.WithRemote(s.remote))
	case s.v.GetString("url") != "":
		if s.remote, err = storage.NewRedis(s.v.GetString("url")); err != nil {
			return err
		}
		opts = append(opts, dict.WithRemote(s.remote))
	default:
		opts = append(opts, dict.WithAddr(s.v.GetString("host"), s.v.GetInt("port")))
	}

	s.store, err = dict.New[string, json.RawMessage](s.v.GetString("namespace"), opts...)
	return err
}

func (s *session) close() error {
	var errs []error
	if s.remote != nil {
		if c, ok := s.remote.Client().(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	if s.embedded != nil {
		s.embedded.Close()
	}
	errs = append(errs, storage.CloseShared())
	return errors.Join(errs...)
}

func (s *session) serializer() (serializer.Serializer, error) {
	switch s.v.GetString("serializer") {
	case "json":
		return serializer.NewSonicJson(), nil
	case "std":
		return serializer.NewStdJson(), nil
	case "msgpack":
		return serializer.NewMsgPackCompress(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", s.v.GetString("serializer"))
	}
}

func (s *session) logger(cmd *cobra.Command) *slog.Logger {
	if !s.v.GetBool("verbose") {
		return nil
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
