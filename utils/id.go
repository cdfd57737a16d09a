package utils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
	idNodeID   int64 = 1
)

// SetIDNode selects the snowflake node used by NewID. It must be called
// before the first id is generated.
func SetIDNode(nodeID int64) {
	idNodeID = nodeID
}

func NewKSUID() string {
	return ksuid.New().String()
}

// NewID returns a snowflake id, or a KSUID when the node cannot be created.
func NewID() string {
	idNodeOnce.Do(func() {
		node, err := snowflake.NewNode(idNodeID)
		if err == nil {
			idNode = node
		}
	})
	if idNode == nil {
		return NewKSUID()
	}
	return idNode.Generate().String()
}
