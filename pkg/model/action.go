package model

//go:generate go run github.com/dmarkham/enumer -type Action -trimprefix Action -transform lower -json -sql -yaml -output action.gen.go
type Action int

const (
	ActionCreate Action = iota
	ActionRead
	ActionUpdate
	ActionDelete
)
