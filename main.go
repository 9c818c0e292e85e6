package main

import (
	"fmt"
	"log"

	"github.com/flashkv/flashkv/storeoptions"
	"github.com/flashkv/flashkv/store"
)

func main() {
	s, err := store.New[string](
		storeoptions.WithDatabasePath("data_store_db"),
		storeoptions.WithMemoryThreshold(5),
		storeoptions.WithSparseInterval(3),
	)
	if err != nil {
		log.Fatalf("flashkv: failed to open store: %v", err)
	}

	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("key%d", i)
		if err := s.Insert(key, fmt.Sprintf("value%d", i)); err != nil {
			log.Fatalf("flashkv: insert %s: %v", key, err)
		}
	}

	if v, found := s.Get("key7"); found {
		fmt.Println("key7 =", v)
	}

	if err := s.Compact(); err != nil {
		log.Fatalf("flashkv: compact: %v", err)
	}
}
