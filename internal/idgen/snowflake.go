package idgen

import (
	"log"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

// Init sets up the default snowflake node.
func Init(nodeID int64) {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		log.Fatalf("snowflake init failed: %v", err)
	}
	node = n
}

// New generates a globally unique id.
func New() uint64 {
	if node == nil {
		panic("idgen: node not initialized")
	}
	return uint64(node.Generate().Int64())
}
