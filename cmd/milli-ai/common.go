package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/metalagman/milli-ai/internal/config"
	"github.com/metalagman/milli-ai/internal/db"
	"github.com/metalagman/milli-ai/internal/transport"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind %s flag: %v", key, err))
	}
}

func newLoader() *config.Loader {
	if path := viper.GetString("config"); path != "" {
		return config.NewLoader(config.WithPath(path))
	}
	return config.NewLoader()
}

func newTransport() (transport.Transport, error) {
	switch kind := viper.GetString("transport"); kind {
	case "", "curl":
		return transport.NewCurl(viper.GetString("curl_bin")), nil
	case "http":
		return transport.NewHTTP(nil), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want curl or http)", kind)
	}
}

func journalPath() (string, error) {
	if path := viper.GetString("journal_path"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve journal path: %w", err)
	}
	return filepath.Join(home, ".milli", "journal.db"), nil
}

func openJournal() (*db.Store, func(), error) {
	path, err := journalPath()
	if err != nil {
		return nil, func() {}, err
	}
	storeDB, err := db.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return db.NewStore(storeDB), func() { _ = storeDB.Close() }, nil
}
