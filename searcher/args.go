package searcher

import "math"

// Hyperparameters shared by both search engines.

// Exploration balances exploitation against exploration in UCB selection.
const Exploration = math.Sqrt2

// Rewards are estimates of the chance of winning.
const (
	Win  = 1.0
	Loss = -1.0
)

const (
	// rolloutCap bounds a uniformly random playout. The game's own draw
	// clock ends a playout long before this.
	rolloutCap = 1000
	// rolloutHorizon bounds an epsilon-greedy playout and drives the
	// epsilon decay schedule.
	rolloutHorizon = 200
	// epsilonFloor keeps some randomness in late-playout greedy moves.
	epsilonFloor = 0.1
	// inferenceSlack keeps every hidden-piece arrangement sampleable even
	// at an observed win rate of 1.
	inferenceSlack = 0.05
)
