// Command glyphpatch rewrites the alphabet-grid header glyphs from
// isolated letter forms to positional (joined) forms. The update keys
// on the unit's grid metadata and the exact prior content, so running
// it twice is a no-op.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/muallimisoniy/api/database"
	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/arabic"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	db := store.GetDB().(*gorm.DB)

	subs := arabic.Substitutions()
	fmt.Printf("Loaded %d glyph substitutions\n", len(subs))

	// Only header-row units carry positional drill glyphs
	var units []model.TextUnit
	err = db.Where(datatypes.JSONQuery("metadata").Equals("header", "section")).
		Find(&units).Error
	if err != nil {
		log.Fatalf("Failed to load header units: %v", err)
	}
	fmt.Printf("Found %d header units\n", len(units))

	// Index substitutions by (column, prior content)
	type key struct {
		col  int
		from string
	}
	byKey := make(map[key]arabic.Substitution, len(subs))
	for _, s := range subs {
		byKey[key{s.Col, s.From}] = s
	}

	updated := 0
	skipped := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, unit := range units {
			meta := unit.DecodeMetadata()
			if meta.Grid == nil {
				skipped++
				continue
			}

			sub, ok := byKey[key{meta.Grid.Col, unit.TextContent}]
			if !ok {
				// Already patched, or not a drill glyph
				skipped++
				continue
			}

			if *dryRun {
				fmt.Printf("  would update unit %d (col %d): %s -> %s\n",
					unit.ID, sub.Col, sub.From, sub.To)
				updated++
				continue
			}

			// Guard on the exact prior content so a concurrent edit or a
			// rerun never double-applies
			res := tx.Model(&model.TextUnit{}).
				Where("id = ? AND text_content = ?", unit.ID, sub.From).
				Update("text_content", sub.To)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				updated++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Glyph patch failed: %v", err)
	}

	separator := strings.Repeat("=", 60)
	fmt.Println(separator)
	if *dryRun {
		fmt.Printf("Dry run: %d units would be updated, %d unchanged\n", updated, skipped)
	} else {
		fmt.Printf("Updated %d units, %d unchanged\n", updated, skipped)
	}
	fmt.Println(separator)
}
