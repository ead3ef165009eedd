package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"copy-environment/core/config"
	"copy-environment/core/database"
	"copy-environment/core/reconcile"
	"copy-environment/feature/world"
)

// Prints every difference between a snapshot file and the world database
// without persisting the selection or applying anything.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: debug_diff <snapshot.json> [key]")
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}

	local, err := world.NewLocalStorage(cfg.World.ClientStoragePath)
	if err != nil {
		log.Fatal(err)
	}
	store := world.NewStore(db, local, cfg.World.Actor, nil)
	ctx := context.Background()

	selection, err := reconcile.LoadSelection(ctx, nil)
	if err != nil {
		log.Fatal(err)
	}
	session := reconcile.NewSession(store, selection, nil, reconcile.Options{})
	if err := session.Load(ctx, data); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Acting user %q privileged: %v\n", cfg.World.Actor, store.IsPrivileged(ctx))

	// A second argument narrows the output to a single key.
	if len(os.Args) > 2 {
		key := os.Args[2]
		scope, registered := store.SettingScope(ctx, key)
		raw, stored, err := store.RawSetting(ctx, key)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Key %s: registered=%v scope=%q stored=%v raw=%s\n", key, registered, scope, stored, raw)
	}

	v := session.View()
	fmt.Println("=== World settings ===")
	for _, g := range v.Groups {
		fmt.Printf("[%s] %s\n", g.State, g.Name)
		for _, f := range g.Fields {
			fmt.Printf("  %s: %s -> %s\n", f.Key, f.Difference.OldDisplay, f.Difference.NewDisplay)
		}
	}

	fmt.Println("=== Players ===")
	for _, p := range v.Players {
		fmt.Printf("[%s] %s\n", p.State, p.Name)
		for _, f := range p.Fields {
			fmt.Printf("  %s: %s -> %s\n", f.Name, f.Difference.OldDisplay, f.Difference.NewDisplay)
		}
	}
	for _, p := range v.MissingPlayers {
		fmt.Printf("NOT FOUND: %s\n", p.Name)
	}
	for _, name := range v.UnchangedPlayers {
		fmt.Printf("unchanged: %s\n", name)
	}

	fmt.Println("=== Diagnostics ===")
	for _, d := range v.Diagnostics {
		fmt.Printf("%s %s: %s\n", d.Stage, d.Subject, d.Message)
	}
}
