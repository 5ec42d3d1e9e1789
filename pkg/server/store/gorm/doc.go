// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// The database handle should be opened with TranslateError enabled so that
// unique and foreign key violations surface as store.ErrDuplicate and
// store.ErrReferenced.
package gorm
