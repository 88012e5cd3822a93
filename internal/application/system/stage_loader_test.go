package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/coyote/internal/domain/entity"
	"github.com/younwookim/coyote/internal/infrastructure/config"
)

func TestLoadStage(t *testing.T) {
	t.Run("loads basic stage", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size: config.StageSizeConfig{
				Width:    48,
				Height:   48,
				TileSize: 16,
			},
			PlayerSpawn: config.PositionConfig{
				X: 32,
				Y: 32,
			},
			Layers: config.LayersConfig{
				Collision: []string{
					"###",
					"#.#",
					"###",
				},
			},
			TileMapping: map[string]config.TileMappingConfig{
				"#": {Type: "wall", Solid: true},
				".": {Type: "empty", Solid: false},
			},
		}

		stage := LoadStage(cfg)

		require.NotNil(t, stage)
		assert.Equal(t, 3, stage.Width)
		assert.Equal(t, 3, stage.Height)
		assert.Equal(t, 16, stage.TileSize)
		assert.Equal(t, 32, stage.SpawnX)
		assert.Equal(t, 32, stage.SpawnY)
		assert.True(t, stage.IsSolid(0, 0))
		assert.False(t, stage.IsSolid(1, 1))
	})

	t.Run("maps platform tiles", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size: config.StageSizeConfig{Width: 32, TileSize: 16},
			Layers: config.LayersConfig{
				Collision: []string{
					"  ",
					"==",
				},
			},
			TileMapping: map[string]config.TileMappingConfig{
				"=": {Type: "platform", Solid: true},
			},
		}

		stage := LoadStage(cfg)

		assert.Equal(t, entity.TilePlatform, stage.GetTile(1, 1).Type)
		assert.True(t, stage.IsSolid(1, 1))
		assert.Equal(t, entity.TileEmpty, stage.GetTile(0, 0).Type)
	})

	t.Run("short and long rows", func(t *testing.T) {
		cfg := &config.StageConfig{
			Size: config.StageSizeConfig{Width: 48, TileSize: 16},
			Layers: config.LayersConfig{
				Collision: []string{
					"#",
					"#####",
				},
			},
			TileMapping: map[string]config.TileMappingConfig{
				"#": {Type: "wall", Solid: true},
			},
		}

		stage := LoadStage(cfg)

		require.Len(t, stage.Tiles[0], 3)
		require.Len(t, stage.Tiles[1], 3)
		assert.True(t, stage.IsSolid(0, 0))
		assert.False(t, stage.IsSolid(2, 0))
		assert.True(t, stage.IsSolid(2, 1))
	})

	t.Run("loads demo stage from disk", func(t *testing.T) {
		cfg, err := config.NewLoader("../../../cmd/game/configs").LoadStage("demo")
		require.NoError(t, err)

		stage := LoadStage(cfg)

		assert.Equal(t, 40, stage.Width)
		assert.Equal(t, 15, stage.Height)
		assert.True(t, stage.IsSolid(0, 14))
		assert.False(t, stage.IsSolid(16, 13), "floor gap")
	})
}
