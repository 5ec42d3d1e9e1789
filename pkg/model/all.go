package model

// All returns every model in dependency order, for schema migration in
// tests and tools that use GORM's AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Module{},
		&Permission{},
		&Role{},
		&Group{},
		&User{},
	}
}
