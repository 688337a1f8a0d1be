package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/theflywheel/lphash"
)

func main() {
	configPath := flag.String("config", "", "optional TOML file with map settings")
	verbose := flag.Bool("v", false, "log resize events")
	flag.Parse()

	cfg := lphash.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = lphash.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	logger := zap.NewNop()
	if *verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("Failed to create logger: %v", err)
		}
		defer logger.Sync()
	}

	m, err := lphash.NewWithConfig[int](cfg, lphash.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create map: %v", err)
	}

	fmt.Printf("Map created: capacity=%d max-load=%.2f growth=%d probe=%s\n",
		m.Capacity(), cfg.MaxLoad, cfg.GrowthFactor, cfg.Probe)

	// Insert some data
	for i := 0; i < 10; i++ {
		m.Set(fmt.Sprintf("key-%d", i), i*100)
	}

	fmt.Printf("Inserted 10 key-value pairs: len=%d capacity=%d\n", m.Len(), m.Capacity())

	// Retrieve and display some values
	for i := 0; i < 15; i += 2 {
		key := fmt.Sprintf("key-%d", i)
		value, err := m.Get(key)
		switch {
		case errors.Is(err, lphash.ErrKeyNotFound):
			fmt.Printf("%s not found\n", key)
		case err != nil:
			log.Fatalf("Failed to get %s: %v", key, err)
		default:
			fmt.Printf("%s => %d\n", key, value)
		}
	}

	// Update a value
	m.Set("key-2", 999)
	if value, ok := m.Lookup("key-2"); ok {
		fmt.Printf("Updated key-2 => %d\n", value)
	}

	// Delete and re-add
	if err := m.Delete("key-4"); err != nil {
		log.Fatalf("Failed to delete key-4: %v", err)
	}
	fmt.Printf("Deleted key-4: len=%d tombstones=%d load=%.2f\n",
		m.Len(), m.Tombstones(), m.LoadFactor())

	m.Set("key-4", 4)
	fmt.Printf("Re-added key-4: len=%d tombstones=%d load=%.2f\n",
		m.Len(), m.Tombstones(), m.LoadFactor())

	fmt.Println("Example completed successfully")
}
