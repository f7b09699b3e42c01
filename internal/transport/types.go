package transport

import "github.com/goodnatureofminers/lightsync/internal/model"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	StatusSource interface {
		Status() model.SyncStatus
	}
)
