// Package config loads the Klondike rule presets.
//
// A preset is a JSON file in the configs directory. It names a draw count
// (1 or 3), an optional card back color, and the messages shown on deal,
// victory and loss:
//
//	{
//	  "name": "Draw Three",
//	  "description": "Klondike turning three cards at a time from the stock",
//	  "draw_count": 3,
//	  "color": "blue",
//	  "messages": {"welcome": "...", "victory": "...", "lost": "..."}
//	}
//
// The file name without its extension is the config ID clients pass when
// creating a session. draw1 is the default; when it is missing the first
// valid preset on disk is used, and with none at all the built-in draw-one
// preset.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	preset, err := manager.LoadConfig("draw3")
//	presets, err := manager.ListConfigs()
package config
