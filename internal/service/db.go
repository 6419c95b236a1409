package service

import (
	stderrors "errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// isDuplicateKey reports whether err is a unique-constraint violation.
// MySQL error 1062 is checked directly because gorm only translates it
// when TranslateError is enabled.
func isDuplicateKey(err error) bool {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return stderrors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
