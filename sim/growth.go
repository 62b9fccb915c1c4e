package sim

import "github.com/sirupsen/logrus"

// GrowToBounds grows t until the configured iteration count is reached and at
// least MinNodes living nodes exist, stopping early as soon as MaxNodes living
// nodes exist. It returns the number of rounds applied.
func GrowToBounds(t *Tree) int {
	g := t.growth
	iter := 0
	for iter < g.NumIterations || t.NodeCount() < t.DeadNodeCount()+g.MinNodes+1 {
		if t.NodeCount() >= t.DeadNodeCount()+g.MaxNodes+1 {
			logrus.Debugf("[growth] node cap %d reached after %d rounds", g.MaxNodes, iter)
			break
		}
		t.Grow()
		iter++
	}
	logrus.Debugf("[growth] %d rounds, %d nodes (%d dead)", iter, t.NodeCount(), t.DeadNodeCount())
	return iter
}
