package database

import (
	"fmt"
	"log"

	"github.com/muallimisoniy/api/model"
	"github.com/muallimisoniy/api/utils/arabic"
	"github.com/muallimisoniy/api/utils/auth"
	"gorm.io/gorm"
)

// Advisory lock ID guarding the seed against concurrent workers
const seedLockID = 123456789

// Seeder handles first-run database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll creates the admin account and the book content. Safe to run on
// every startup: existing data is never overwritten.
func (s *Seeder) SeedAll(adminUsername, adminPassword string) error {
	log.Println("Starting database seeding...")

	// Serialize seeding across workers with a Postgres advisory lock
	var gotLock bool
	if err := s.db.Raw("SELECT pg_try_advisory_lock(?)", seedLockID).Scan(&gotLock).Error; err != nil {
		return err
	}
	if !gotLock {
		log.Println("Another worker is seeding, skipping...")
		return nil
	}
	defer s.db.Exec("SELECT pg_advisory_unlock(?)", seedLockID)

	if err := s.SeedAdminUser(adminUsername, adminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedBook(); err != nil {
		return fmt.Errorf("failed to seed book: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the bootstrap admin account
func (s *Seeder) SeedAdminUser(username, password string) error {
	if username == "" || password == "" {
		log.Println("ADMIN_USERNAME/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := s.db.Model(&model.AdminUser{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Admin user %q already exists, skipping", username)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.db.Create(&model.AdminUser{
		Username:     username,
		PasswordHash: hash,
	}).Error; err != nil {
		return err
	}

	log.Printf("Admin user %q created", username)
	return nil
}

// SeedBook creates the book, its single chapter and the alphabet pages.
// Pages are only created when none exist so admin edits survive restarts.
func (s *Seeder) SeedBook() error {
	var book model.Book
	err := s.db.First(&book).Error
	if err == gorm.ErrRecordNotFound {
		book = model.Book{
			Title:           "المُعَلِّمُ الثَّانِي",
			Description:     "Ikkinchi Muallim — Arab alifbosi va o'qish darsligi",
			Author:          "Muallimi Soniy",
			ManifestVersion: 1,
			IsPublished:     true,
		}
		if err := s.db.Create(&book).Error; err != nil {
			return err
		}
		log.Printf("Book created: %s", book.Title)
	} else if err != nil {
		return err
	} else {
		log.Printf("Book exists: %s (id=%d)", book.Title, book.ID)
	}

	var chapterCount int64
	if err := s.db.Model(&model.Chapter{}).Where("book_id = ?", book.ID).Count(&chapterCount).Error; err != nil {
		return err
	}
	if chapterCount == 0 {
		start, end := 1, len(seedPages())
		if err := s.db.Create(&model.Chapter{
			BookID:    book.ID,
			Title:     "Birinchi dars",
			TitleAr:   "الدَّرْسُ الْأَوَّلُ",
			SortOrder: 0,
			StartPage: &start,
			EndPage:   &end,
		}).Error; err != nil {
			return err
		}
		log.Println("Chapter created")
	}

	// Pages: skip entirely when any exist
	var pageCount int64
	if err := s.db.Model(&model.Page{}).Where("book_id = ?", book.ID).Count(&pageCount).Error; err != nil {
		return err
	}
	if pageCount > 0 {
		log.Println("Pages already exist, skipping seed to preserve data.")
		return nil
	}

	pages := seedPages()
	for _, sp := range pages {
		page := model.Page{
			BookID:         book.ID,
			PageNumber:     sp.number,
			LayoutType:     "native",
			HasTextData:    true,
			IsAnnotated:    true,
			AnalysisStatus: model.PageStatusPublished,
		}
		if err := s.db.Create(&page).Error; err != nil {
			return err
		}

		for _, su := range sp.units {
			meta, err := model.EncodeMetadata(su.meta)
			if err != nil {
				return err
			}
			unit := model.TextUnit{
				PageID:      page.ID,
				UnitType:    su.unitType,
				TextContent: su.text,
				SortOrder:   su.order,
				Metadata:    meta,
			}
			if err := s.db.Create(&unit).Error; err != nil {
				return err
			}
		}
		log.Printf("  Page %d: %d units created", sp.number, len(sp.units))
	}

	if err := s.db.Model(&book).Update("total_pages", len(pages)).Error; err != nil {
		return err
	}

	log.Printf("Book seeding complete! %d pages created.", len(pages))
	return nil
}

type seedUnit struct {
	text     string
	unitType model.UnitType
	order    int
	meta     model.UnitMetadata
}

type seedPage struct {
	number int
	units  []seedUnit
}

// seedPages builds the lesson pages: an opening page, the full alphabet
// grid, then one page per pair of letters. Header rows are seeded with
// isolated forms; cmd/glyphpatch rewrites them to positional forms.
func seedPages() []seedPage {
	var pages []seedPage

	// Page 1: opening sentences
	pages = append(pages, seedPage{
		number: 1,
		units: []seedUnit{
			{
				text:     "بِسْمِ اللهِ الرَّحْمٰنِ الرَّحِيْمِ",
				unitType: model.UnitTypeSentence,
				order:    0,
				meta:     model.UnitMetadata{Section: "opening"},
			},
			{
				text:     "رَبِّ يَسِّرْ وَلَا تُعَسِّرْ",
				unitType: model.UnitTypeSentence,
				order:    1,
				meta:     model.UnitMetadata{Section: "opening"},
			},
		},
	})

	// Page 2: alphabet grid of isolated letters
	grid := seedPage{number: 2}
	for i, letter := range arabic.Alphabet {
		grid.units = append(grid.units, seedUnit{
			text:     string(letter),
			unitType: model.UnitTypeLetter,
			order:    i,
			meta: model.UnitMetadata{
				Section: "alphabet",
				Grid:    &model.UnitGrid{Row: i / 4, Col: i % 4},
			},
		})
	}
	pages = append(pages, grid)

	// Pages 3+: two letters per page, each with a header row of the three
	// positional drills (columns 0/1/2 = beginning/middle/end)
	pageNum := 3
	for i := 0; i < len(arabic.Alphabet); i += 2 {
		page := seedPage{number: pageNum}
		order := 0
		for row, letter := range arabic.Alphabet[i:min(i+2, len(arabic.Alphabet))] {
			for col := 0; col < 3; col++ {
				harakah := arabic.HarakahFor(arabic.Position(col))
				page.units = append(page.units, seedUnit{
					text:     arabic.IsolatedForm(letter, harakah),
					unitType: model.UnitTypeLetter,
					order:    order,
					meta: model.UnitMetadata{
						Section: "header",
						Grid:    &model.UnitGrid{Row: row, Col: col},
					},
				})
				order++
			}
		}
		pages = append(pages, page)
		pageNum++
	}

	return pages
}
