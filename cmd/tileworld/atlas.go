package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/samdwyer/tileworld/internal/gfx/soft"
	"github.com/samdwyer/tileworld/internal/tile"
)

var atlasCmd = &cobra.Command{
	Use:   "atlas",
	Short: "Inspect the tile sheets",
	Long: `Load every Tile_<Kind>.png sheet with the software renderer and report
its size, the number of animation frames and whether all sixteen
neighbor-mask rows are present.

Examples:
  tileworld atlas
  tileworld atlas --sprites ./sprites`,
	Args: cobra.NoArgs,
	RunE: runAtlas,
}

func runAtlas(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg.LogLevel)
	// Missing sheets are reported in the table
	logger.SetLevel(log.ErrorLevel)

	atlas, err := tile.LoadAtlas(context.Background(), soft.NewContext(), cfg.Assets.Sprites, logger)
	if err != nil {
		return err
	}
	defer atlas.Release()

	fmt.Println(render(titleStyle, "Tile sheets in "+cfg.Assets.Sprites))
	t := newTable("Kind", "File", "Size", "Frames", "Mask rows")
	missing := 0
	for _, k := range tile.Kinds() {
		if k == tile.Nothing {
			continue
		}
		s := atlas.Sprite(k)
		if !s.Loaded() {
			missing++
			t.Row(k.String(), tile.AssetPath(cfg.Assets.Sprites, k), "missing", "-", "-")
			continue
		}
		rows := "ok"
		if s.Height() < tile.MaskRows*tile.Size {
			rows = fmt.Sprintf("%d of %d", s.Height()/tile.Size, tile.MaskRows)
		}
		t.Row(
			k.String(),
			tile.AssetPath(cfg.Assets.Sprites, k),
			fmt.Sprintf("%dx%d", s.Width(), s.Height()),
			strconv.Itoa(atlas.Frames(k)),
			rows,
		)
	}
	fmt.Println(t)

	if missing > 0 {
		fmt.Println(render(dimStyle, fmt.Sprintf("%d sheet(s) missing; those kinds draw as background.", missing)))
	}
	return nil
}
