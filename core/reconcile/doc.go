// Package reconcile compares an exported environment snapshot against the live
// state of a destination world and applies a selected subset of the differences.
//
// A snapshot is a JSON array of heterogeneous records:
//   - world settings {key, value}, where value is the serialized setting
//   - players {name, core, flags}
//   - one tagged supporting data record carrying folder snapshots
//
// # Session
//
// A Session drives one import cycle:
//
// 1. Load decodes every record with DecodeRecord and compares it through the
//    Host. World settings that differ are grouped by namespace, players are
//    split into changed, unchanged and not found.
//
// 2. Toggle, ToggleGroup and TogglePlayer update the persisted Selection.
//    Keys that were never toggled are selected.
//
// 3. Commit writes client settings locally, dispatches world settings as one
//    update batch and one create batch, then sends one update per player.
//    The compendium configuration is rewritten so its folder references resolve,
//    recreating folders from supporting data when needed.
//
// Problems with a single record or key never abort the cycle. They are
// collected as Diagnostics and logged. Only an unparseable document or a failed
// dispatch is returned as an error.
//
// # Usage Example
//
//	selection, err := reconcile.LoadSelection(ctx, store)
//	session := reconcile.NewSession(host, selection, log, reconcile.Options{DiffLength: 120})
//	if err := session.Load(ctx, data); err != nil {
//	    return err
//	}
//	_ = session.ToggleGroup(ctx, "core", false)
//	result, err := session.Commit(ctx)
package reconcile
