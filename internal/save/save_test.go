package save_test

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"
	bolt "go.etcd.io/bbolt"

	"hollowvale/assets"
	"hollowvale/internal/game"
	"hollowvale/internal/gamemap"
	"hollowvale/internal/save"
	"hollowvale/internal/world"
)

// fixtureGame hand-builds a small run with one of everything the codec
// has to carry: a locked door and a gate, a villager with a schedule
// and a plan, a carried lit torch, writing, loose gold, a trigger wired
// to a gate, a shrine, tile memory, and event subscriptions.
func fixtureGame(t *testing.T) (*game.Game, *assets.Tables) {
	t.Helper()
	tables, err := assets.Load()
	require.NoError(t, err)

	m := gamemap.New()
	m.SetDims(0, 8, 10)
	for r := 0; r < 8; r++ {
		for c := 0; c < 10; c++ {
			tile := gamemap.Make(gamemap.TileStoneFloor)
			if r == 0 || r == 7 || c == 0 || c == 9 {
				tile = gamemap.Make(gamemap.TileWall)
			}
			m.SetTile(gamemap.Loc{Row: r, Col: c}, tile)
		}
	}
	m.SetTile(gamemap.Loc{Row: 3, Col: 4}, gamemap.MakeDoor(gamemap.DoorLocked))
	m.SetTile(gamemap.Loc{Row: 3, Col: 5}, gamemap.MakeGate(gamemap.DoorClosed))
	m.SetTile(gamemap.Loc{Row: 5, Col: 3}, gamemap.Make(gamemap.TileShrine))

	rng := rand.New(rand.NewSource(11))
	objs := world.NewObjects()

	p := world.NewPlayer("Tess", world.RoleWarrior, rng)
	p.Loc = gamemap.Loc{Row: 2, Col: 2}
	p.Purse = 37
	p.XP = 55
	p.Level = 3
	p.MaxDepth = 2
	p.CurrHP = 9
	p.AddStatus(world.StatusPoisoned, 9)

	sword, err := tables.Items.New(objs.NextID(), "longsword")
	require.NoError(t, err)
	sword.Equipped = true
	torch, err := tables.Items.New(objs.NextID(), "torch")
	require.NoError(t, err)
	torch.Equipped = true
	torch.Charges = 212
	p.Inventory = append(p.Inventory, sword, torch)
	p.SetReadiedWeapon()
	objs.Add(p)
	objs.Listen(torch.ID, world.EventUpdate)
	objs.Listen(torch.ID, world.EventEndOfTurn)

	priest := &world.NPC{
		Base:     world.Base{ID: objs.NextID(), Loc: gamemap.Loc{Row: 5, Col: 6}, Name: "Brother Quint", Ch: '@'},
		AC:       12,
		CurrHP:   8,
		MaxHP:    8,
		Level:    2,
		Attitude: world.AttFriendly,
		Home:     0,
		Voice:    "priest",
		Mode:     world.PersonalityVillager,
		Attrs:    world.AttrOpenDoors,
		Alive:    true,
		XPValue:  2,
		Gold:     4,
		Active:   true,
		Plan: []world.Action{
			{Kind: world.ActOpenDoor, Loc: gamemap.Loc{Row: 3, Col: 4}},
			{Kind: world.ActMove, Loc: gamemap.Loc{Row: 4, Col: 4}},
		},
		Schedule: []world.AgendaItem{
			{
				From:     world.ClockTime{Hour: 9},
				To:       world.ClockTime{Hour: 21},
				Priority: 10,
				Place:    world.Venue{Kind: world.VenueShrine, Loc: gamemap.Loc{Row: 5, Col: 3}},
			},
		},
		ActiveBehavior:    world.Behavior{Kind: world.BehaviorWander},
		InactiveBehavior:  world.Behavior{Kind: world.BehaviorIdle, Loc: gamemap.Loc{Row: 5, Col: 3}},
		Energy:            0.5,
		Recovery:          1.0,
		RecentlySawPlayer: true,
		LastPlayerLoc:     gamemap.Loc{Row: 2, Col: 2},
		BoundTo:           world.NoID,
	}
	objs.Add(priest)
	objs.Listen(priest.ID, world.EventTakeTurn)

	note := &world.Item{
		Base:    world.Base{ID: objs.NextID(), Loc: gamemap.Loc{Row: 2, Col: 5}, Name: "scrap of parchment", Ch: '?'},
		Kind:    world.ItemNote,
		Writing: &world.Writing{Desc: "a hasty scrawl", Words: "Beware the cellar."},
	}
	objs.Add(note)

	pile := world.NewGoldPile(objs.NextID(), 23)
	pile.Loc = gamemap.Loc{Row: 4, Col: 3}
	objs.Add(pile)

	gate := world.NewSpecialSquare(objs.NextID(), gamemap.MakeGate(gamemap.DoorClosed), gamemap.Loc{Row: 3, Col: 5}, true, 0)
	gate.Target = world.NoID
	objs.Add(gate)
	trigger := world.NewSpecialSquare(objs.NextID(), gamemap.Make(gamemap.TileTrigger), gamemap.Loc{Row: 6, Col: 2}, false, 0)
	trigger.Target = gate.ID
	objs.Add(trigger)
	objs.Listen(trigger.ID, world.EventSteppedOn)

	shrine := world.NewSpecialSquare(objs.NextID(), gamemap.Make(gamemap.TileShrine), gamemap.Loc{Row: 5, Col: 3}, true, 2)
	objs.Add(shrine)
	objs.Listen(shrine.ID, world.EventUpdate)

	info := world.NewInfo("Hollowvale", [4]int{1, 1, 6, 8}, "the Gilded Toad")
	info.TownSquare.Put(gamemap.Loc{Row: 4, Col: 4})
	info.TownSquare.Put(gamemap.Loc{Row: 4, Col: 5})
	info.Facts = append(info.Facts, world.Fact{Detail: "an old mine north of town", Timestamp: 100, Loc: gamemap.Loc{Row: 1, Col: 2}})
	tb := world.NewTownBuildings()
	tb.Shrine.Put(gamemap.Loc{Row: 5, Col: 3})
	tb.Tavern.Put(gamemap.Loc{Row: 2, Col: 7})
	home := mapset.New[gamemap.Loc]()
	home.Put(gamemap.Loc{Row: 6, Col: 7})
	tb.Homes = append(tb.Homes, home)
	tb.TakenHomes = append(tb.TakenHomes, 0)
	info.Buildings = tb

	g := &game.Game{
		RunID:   uuid.NewString(),
		Map:     m,
		Objs:    objs,
		Info:    info,
		Tables:  tables,
		Rng:     rng,
		Turn:    4242,
		Memory:  make(game.TileMemory),
		Log:     &world.MessageLog{},
		Events:  &world.EventQueue{},
		LitSqs:  mapset.New[gamemap.Loc](),
		AuraSqs: mapset.New[gamemap.Loc](),
	}
	g.Memory[gamemap.Loc{Row: 3, Col: 4}] = game.Remembered{Tile: gamemap.MakeDoor(gamemap.DoorLocked)}
	g.Memory[gamemap.Loc{Row: 6, Col: 2}] = game.Remembered{Tile: gamemap.Make(gamemap.TileStoneFloor), Glyph: '^'}
	g.Wake()
	return g, tables
}

func openStore(t *testing.T) *save.Store {
	t.Helper()
	st, err := save.Open(filepath.Join(t.TempDir(), "saves.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSnapshotRoundTrip(t *testing.T) {
	g, tables := fixtureGame(t)
	st := openStore(t)
	require.NoError(t, st.Snapshot(g))

	g2, err := st.Restore("Tess", tables)
	require.NoError(t, err)

	assert.Equal(t, g.RunID, g2.RunID)
	assert.Equal(t, 4242, g2.Turn)
	assert.Equal(t, g.Objs.NextObjID, g2.Objs.NextObjID)

	p := g.Player()
	p2 := g2.Player()
	require.NotNil(t, p2)
	assert.Equal(t, gamemap.Loc{Row: 2, Col: 2}, p2.Loc)
	assert.Equal(t, 37, p2.Purse)
	assert.Equal(t, 55, p2.XP)
	assert.Equal(t, 3, p2.Level)
	assert.Equal(t, 2, p2.MaxDepth)
	assert.Equal(t, 9, p2.CurrHP)
	assert.Equal(t, p.ReadiedWeapon, p2.ReadiedWeapon)
	assert.True(t, p2.HasStatus(world.StatusPoisoned))
	require.Len(t, p2.Inventory, 2)
	assert.True(t, p2.Inventory[0].Equipped)
	assert.Equal(t, 212, p2.Inventory[1].Charges)

	assert.Equal(t, gamemap.Dims{Height: 8, Width: 10}, g2.Map.LevelDims(0))
	assert.True(t, g2.Map.At(gamemap.Loc{Row: 3, Col: 4}).IsDoor(gamemap.DoorLocked))
	assert.Equal(t, gamemap.MakeGate(gamemap.DoorClosed), g2.Map.At(gamemap.Loc{Row: 3, Col: 5}))
	assert.Equal(t, gamemap.Make(gamemap.TileWall), g2.Map.At(gamemap.Loc{Row: 0, Col: 0}))

	priest := g2.Objs.NPCAt(gamemap.Loc{Row: 5, Col: 6})
	require.NotNil(t, priest)
	assert.Equal(t, "Brother Quint", priest.Name)
	assert.Equal(t, world.AttFriendly, priest.Attitude)
	assert.True(t, priest.Attrs.CanOpenDoors())
	assert.Equal(t, world.NoID, priest.BoundTo)
	require.Len(t, priest.Plan, 2)
	assert.Equal(t, world.ActOpenDoor, priest.Plan[0].Kind)
	require.Len(t, priest.Schedule, 1)
	assert.Equal(t, world.VenueShrine, priest.Schedule[0].Place.Kind)
	assert.Equal(t, world.ClockTime{Hour: 9}, priest.Schedule[0].From)
	assert.Equal(t, world.BehaviorIdle, priest.InactiveBehavior.Kind)
	assert.True(t, priest.RecentlySawPlayer)

	things := g2.Objs.ThingsAt(gamemap.Loc{Row: 2, Col: 5})
	require.Len(t, things, 1)
	note, ok := things[0].(*world.Item)
	require.True(t, ok)
	require.NotNil(t, note.Writing)
	assert.Equal(t, "Beware the cellar.", note.Writing.Words)

	things = g2.Objs.ThingsAt(gamemap.Loc{Row: 4, Col: 3})
	require.Len(t, things, 1)
	pile, ok := things[0].(*world.GoldPile)
	require.True(t, ok)
	assert.Equal(t, 23, pile.Amount)

	specials := g2.Objs.SpecialsAt(gamemap.Loc{Row: 6, Col: 2})
	require.Len(t, specials, 1)
	assert.False(t, specials[0].Active)
	gates := g2.Objs.SpecialsAt(gamemap.Loc{Row: 3, Col: 5})
	require.Len(t, gates, 1)
	assert.Equal(t, gates[0].ObjectID(), specials[0].Target)

	require.Contains(t, g2.Memory, gamemap.Loc{Row: 6, Col: 2})
	assert.Equal(t, '^', g2.Memory[gamemap.Loc{Row: 6, Col: 2}].Glyph)
	assert.Equal(t, gamemap.MakeDoor(gamemap.DoorLocked), g2.Memory[gamemap.Loc{Row: 3, Col: 4}].Tile)

	for kind := world.EventEndOfTurn; kind <= world.EventDeathOf; kind++ {
		assert.Equal(t, g.Objs.ListenersFor(kind), g2.Objs.ListenersFor(kind), "listeners for %v", kind)
	}

	assert.True(t, g2.LitSqs.Has(p2.Loc), "carried torch should light the player's square")
	assert.True(t, g2.AuraSqs.Has(gamemap.Loc{Row: 5, Col: 3}), "shrine should keep its aura")
}

func TestLookupAndKeySanitizing(t *testing.T) {
	g, _ := fixtureGame(t)
	g.Player().Name = "Old Hob"
	st := openStore(t)

	_, ok := st.Lookup("Old Hob")
	assert.False(t, ok)

	require.NoError(t, st.Snapshot(g))
	meta, ok := st.Lookup("Old Hob")
	require.True(t, ok)
	assert.Equal(t, "Old Hob", meta.Name)
	assert.Equal(t, 3, meta.Level)
	assert.Equal(t, 0, meta.Depth)
	assert.Equal(t, 4242, meta.Turn)
	assert.Equal(t, g.RunID, meta.RunID)
	assert.False(t, meta.SavedAt.IsZero())
}

func TestDeleteDropsTheSnapshot(t *testing.T) {
	g, tables := fixtureGame(t)
	st := openStore(t)
	require.NoError(t, st.Snapshot(g))
	require.NoError(t, st.Delete("Tess"))

	_, ok := st.Lookup("Tess")
	assert.False(t, ok)
	_, err := st.Restore("Tess", tables)
	require.Error(t, err)
	assert.NotErrorIs(t, err, save.ErrCorrupt)
}

func TestRestoreUnknownName(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)
	st := openStore(t)

	_, err = st.Restore("Nobody", tables)
	require.Error(t, err)
	assert.NotErrorIs(t, err, save.ErrCorrupt)
}

func TestGarbledSnapshotReadsAsCorrupt(t *testing.T) {
	g, tables := fixtureGame(t)
	path := filepath.Join(t.TempDir(), "saves.db")
	st, err := save.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Snapshot(g))
	require.NoError(t, st.Close())

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte("world")).Put([]byte("Tess"), []byte("not: [valid"))
	}))
	require.NoError(t, db.Close())

	st, err = save.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = st.Restore("Tess", tables)
	require.ErrorIs(t, err, save.ErrCorrupt)

	// the meta record is untouched, so the name still shows as saved
	_, ok := st.Lookup("Tess")
	assert.True(t, ok)
}

func TestUnknownVersionReadsAsCorrupt(t *testing.T) {
	tables, err := assets.Load()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "saves.db")
	st, err := save.Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	db, err := bolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte("world")).Put([]byte("Tess"), []byte("version: 99\n"))
	}))
	require.NoError(t, db.Close())

	st, err = save.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = st.Restore("Tess", tables)
	require.ErrorIs(t, err, save.ErrCorrupt)
}
