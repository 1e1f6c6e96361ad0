// Package database provides the data access layer for the application.
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── shelves/         # Shelf CRUD, favorites and cascading delete
//	└── links/           # Link CRUD and favicon storage
//
// A single *gorm.DB handle is opened at startup and handed to each
// repository:
//
//	db, err := database.NewDatabase("./linkdepot.db", "warn", log)
//
//	shelfRepo := shelves.NewRepository(db.DB)
//	linkRepo := links.NewRepository(db.DB)
//
//	shelf, err := shelfRepo.FromID(3)
//	items, err := linkRepo.ListForShelf(shelf.ID)
//
// Each repository implements the store interface declared by its consumer
// in internal/http, checked at compile time in internal/interfaces.
package database
