package database

import (
	"fmt"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"go-retail-store/internal/access"
	"go-retail-store/internal/model"
)

// Models lists the tables in dependency order.
var Models = []interface{}{
	&model.Group{},
	&model.User{},
	&model.Customer{},
	&model.Employee{},
	&model.Product{},
	&model.Sale{},
	&model.SaleItem{},
	&model.StockMovement{},
}

// ProductViews are the read-only catalog projections, one per role that
// reads the catalog.
var ProductViews = []access.Resource{
	access.ResourceCustomerProducts,
	access.ResourceEmployeeProducts,
}

// Migrate creates or updates the tables and (re)creates the views.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return errors.Annotate(err, "auto-migrating tables")
	}
	for _, view := range ProductViews {
		if err := createProductView(db, string(view)); err != nil {
			return errors.Annotatef(err, "creating view %s", view)
		}
	}
	return nil
}

func createProductView(db *gorm.DB, name string) error {
	body := fmt.Sprintf(`SELECT id, nome, preco, estoque FROM "%s"`, model.Product{}.TableName())

	var stmt string
	switch db.Dialector.Name() {
	case "postgres":
		stmt = fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS %s`, name, body)
	default:
		stmt = fmt.Sprintf(`CREATE VIEW IF NOT EXISTS %s AS %s`, name, body)
	}
	return db.Exec(stmt).Error
}
