// internal/adapters/out/firestore/id_generator_fs.go
package firestore

import (
	"cloud.google.com/go/firestore"
)

// IDGeneratorFS mints Firestore-style document ids without a write.
// Backs usecase.IDGenerator.
type IDGeneratorFS struct {
	Client *firestore.Client
}

func NewIDGeneratorFS(client *firestore.Client) *IDGeneratorFS {
	return &IDGeneratorFS{Client: client}
}

func (g *IDGeneratorFS) NewID() string {
	// the collection name is irrelevant; NewDoc only derives a random id
	return g.Client.Collection("ids").NewDoc().ID
}
