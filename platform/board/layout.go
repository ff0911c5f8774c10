package board

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"

	"github.com/DedS3t/monopoly-engine/app/models"
)

//go:embed data/*.json
var classic embed.FS

type Layout struct {
	StartingMoney int        `json:"startingMoney"`
	JailFine      int        `json:"jailFine"`
	Houses        int        `json:"houses"`
	Hotels        int        `json:"hotels"`
	Groups        []string   `json:"groups"`
	Spaces        []SpaceDef `json:"spaces"`
}

type SpaceDef struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Deck   string `json:"deck,omitempty"`
	Bonus  int    `json:"bonus,omitempty"`
	Amount int    `json:"amount,omitempty"`
	Group  string `json:"group,omitempty"`
}

// LoadDefault loads the classic board shipped with the binary.
func LoadDefault() *Board {
	b, err := loadFS(classic, "data")
	if err != nil {
		panic(err)
	}
	return b
}

func LoadDir(dir string) (*Board, error) {
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, dir string) (*Board, error) {
	var (
		layout        Layout
		deeds         []models.TitleDeed
		chance, chest []models.Card
	)
	files := []struct {
		name string
		into interface{}
	}{
		{"layout.json", &layout},
		{"deeds.json", &deeds},
		{"chance.json", &chance},
		{"chest.json", &chest},
	}
	for _, f := range files {
		raw, err := fs.ReadFile(fsys, path.Join(dir, f.name))
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, f.into); err != nil {
			return nil, fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return LoadBoard(layout, deeds, chance, chest)
}

func LoadBoard(layout Layout, deeds []models.TitleDeed, chance, chest []models.Card) (*Board, error) {
	b := &Board{
		StartingMoney: layout.StartingMoney,
		JailFine:      layout.JailFine,
		JailPosition:  -1,
		Groups:        layout.Groups,
		deeds:         make(map[int]models.TitleDeed, len(deeds)),
		houses:        layout.Houses,
		hotels:        layout.Hotels,
	}
	groups := make(map[string]bool, len(layout.Groups))
	for _, g := range layout.Groups {
		groups[g] = true
	}

	gos := 0
	for i, def := range layout.Spaces {
		space := models.Space{Name: def.Name}
		switch def.Type {
		case "simple":
			space.Kind = models.SpaceSimple
		case "jail":
			space.Kind = models.SpaceSimple
			if b.JailPosition != -1 {
				return nil, fmt.Errorf("%w: second jail at %d", models.ErrInvalidFormat, i)
			}
			b.JailPosition = i
		case "card":
			space.Kind = models.SpaceDrawCard
			switch def.Deck {
			case "chance":
				space.Deck = models.DeckChance
			case "chest":
				space.Deck = models.DeckChest
			default:
				return nil, fmt.Errorf("%w: unknown deck %q at %d", models.ErrInvalidFormat, def.Deck, i)
			}
		case "gotojail":
			space.Kind = models.SpaceGoToJail
		case "go":
			space.Kind = models.SpaceGo
			space.Bonus = def.Bonus
			gos++
		case "tax":
			space.Kind = models.SpaceTax
			space.Amount = def.Amount
		case "station":
			space.Kind = models.SpaceTrainStation
		case "utility":
			space.Kind = models.SpaceUtility
		case "road":
			space.Kind = models.SpaceRoad
			if !groups[def.Group] {
				return nil, fmt.Errorf("%w: unknown group %q at %d", models.ErrInvalidFormat, def.Group, i)
			}
			space.Group = def.Group
		default:
			return nil, fmt.Errorf("%w: unknown space type %q at %d", models.ErrInvalidFormat, def.Type, i)
		}
		b.spaces = append(b.spaces, space)
	}
	if gos != 1 {
		return nil, fmt.Errorf("%w: board needs exactly one go space, found %d", models.ErrInvalidFormat, gos)
	}
	if b.JailPosition == -1 {
		return nil, fmt.Errorf("%w: board has no jail", models.ErrInvalidFormat)
	}

	for _, deed := range deeds {
		if deed.Posistion < 0 || deed.Posistion >= len(b.spaces) {
			return nil, fmt.Errorf("%w: deed for position %d", models.ErrOutOfRange, deed.Posistion)
		}
		if !b.spaces[deed.Posistion].IsProperty() {
			return nil, fmt.Errorf("%w: deed for %s", models.ErrNotAProperty, b.spaces[deed.Posistion].Name)
		}
		if _, dup := b.deeds[deed.Posistion]; dup {
			return nil, fmt.Errorf("%w: duplicate deed for position %d", models.ErrInvalidFormat, deed.Posistion)
		}
		if len(deed.Rent) == 0 || (b.spaces[deed.Posistion].Kind == models.SpaceRoad && len(deed.Rent) != 6) {
			return nil, fmt.Errorf("%w: rent schedule for %s", models.ErrInvalidFormat, b.spaces[deed.Posistion].Name)
		}
		b.deeds[deed.Posistion] = deed
	}
	for i, s := range b.spaces {
		if _, ok := b.deeds[i]; s.IsProperty() && !ok {
			return nil, fmt.Errorf("%w: no deed for %s", models.ErrInvalidFormat, s.Name)
		}
	}

	for deck, cards := range [][]models.Card{chance, chest} {
		if len(cards) == 0 {
			return nil, fmt.Errorf("%w: %s deck is empty", models.ErrInvalidFormat, models.DeckType(deck))
		}
		for _, c := range cards {
			if !c.Effect.Valid() {
				return nil, fmt.Errorf("%w: card %q has unknown effect %q", models.ErrInvalidFormat, c.Info, c.Effect)
			}
			if c.Effect == models.EffectAdvance && (c.Value < 0 || c.Value >= len(b.spaces)) {
				return nil, fmt.Errorf("%w: card %q advances to %d", models.ErrOutOfRange, c.Info, c.Value)
			}
		}
		b.decks[deck] = NewDeck(cards, nil)
	}
	return b, nil
}
