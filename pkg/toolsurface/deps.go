package toolsurface

import (
	"github.com/sirupsen/logrus"

	"github.com/tuitbot/tuitbot/pkg/gateway"
	"github.com/tuitbot/tuitbot/pkg/store"
	"github.com/tuitbot/tuitbot/pkg/toolkit"
	"github.com/tuitbot/tuitbot/pkg/workflow"
)

// Dependencies bundles the capabilities a tool handler may reach for.
// Utility profiles only ever touch API; Workflow-lane tools also reach
// Store and Workflow.
type Dependencies struct {
	API      toolkit.SocialApiClient
	Gateway  *gateway.Gateway
	Store    *store.Store
	Workflow *workflow.Workflow
	Logger   *logrus.Logger
}
