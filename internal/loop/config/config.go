// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield - logical coordinate space used by the simulation.
// Rendering scales it to fit the terminal.
const (
	FieldWidth  = 800
	FieldHeight = 600
)

// Player
const (
	PlayerWidth    = 50
	PlayerHeight   = 30
	PlayerSpeed    = 12.0
	PlayerBottom   = 30 // Distance from the bottom edge to the player's top
	InitialLives   = 3
	FireCooldown   = 150 * time.Millisecond
	MaxNameLength  = 16 // Maximum length of a leaderboard name
	ScorePerEnemy  = 10
	BulletWidth    = 5
	BulletHeight   = 10
	BulletSpeed    = 12.0
	EnemyShotSpeed = 12.0
)

// Formation
const (
	EnemyRows          = 5
	EnemyCols          = 10
	EnemyWidth         = 40
	EnemyHeight        = 30
	EnemySpacingX      = 60
	EnemySpacingY      = 40
	EnemyOffsetX       = 50
	EnemyOffsetY       = 50
	EnemyBaseSpeed     = 1.2
	EnemySpeedPerLevel = 0.4
	EnemyDropDistance  = 30
	EnemyFireChance    = 0.12 // Per tick
)

// Explosions
const (
	ExplosionStartRadius = 5.0
	ExplosionMaxRadius   = 30.0
	ExplosionGrowth      = 2.0  // Radius per tick
	ExplosionFade        = 0.04 // Alpha per tick
)

// Tick rates
const (
	TargetTPS       = 30
	ConstrainedTPS  = 20
	DisplayRefresh  = 60 // Host frame requests per second
	TerminalCheckN  = 5  // Bottom-reach check runs every Nth tick
	FormRevealDelay = 500 * time.Millisecond
	BoardRefreshLag = 500 * time.Millisecond
)

// Rendering
const (
	MaxTermWidth  = 200
	MaxTermHeight = 70
)

// Session
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
	ShutdownDisplay          = 3 * time.Second
	SubmitTimeout            = 10 * time.Second
)

// Leaderboard
const (
	LeaderboardTop  = 10
	LeaderboardKeep = 100
)
