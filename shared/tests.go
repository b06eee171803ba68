package shared

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// NewTestDbInstance opens a private in-memory sqlite database for a test
// spec. The shared cache keeps the database alive across the pool's
// connections; it is dropped when the last connection closes.
func NewTestDbInstance(name string, logger ...interface {
	Print(v ...interface{})
}) *gorm.DB {
	db, err := gorm.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		panic(err)
	}
	db.LogMode(false)
	if len(logger) > 0 {
		db.SetLogger(logger[0])
		db.LogMode(true)
	}
	return db
}
