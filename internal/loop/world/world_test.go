package world

import (
	"errors"
	"testing"
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// fixedRand returns the same draw every time.
type fixedRand struct {
	f float64
	n int
}

func (r fixedRand) Float64() float64 { return r.f }

func (r fixedRand) IntN(n int) int {
	if r.n >= n {
		return n - 1
	}
	return r.n
}

var neverFire = fixedRand{f: 1}

func newTestState(t *testing.T) *State {
	t.Helper()
	s := New()
	s.DrainEvents()
	return s
}

func enemyAt(x, y float64) *object.Enemy {
	e := object.NewEnemy(0, 0)
	e.X, e.Y = x, y
	return e
}

func bulletAt(x, y, vy float64) *object.Bullet {
	return &object.Bullet{X: x, Y: y, Width: config.BulletWidth, Height: config.BulletHeight, VY: vy}
}

func countEvents(evs []Event, kind EventKind) int {
	n := 0
	for _, ev := range evs {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewStartsFirstEpisode(t *testing.T) {
	s := New()
	if s.Level != 1 || s.Score != 0 || s.Player.Lives != 3 {
		t.Fatalf("level/score/lives = %d/%d/%d, want 1/0/3", s.Level, s.Score, s.Player.Lives)
	}
	if len(s.Enemies) != config.EnemyRows*config.EnemyCols {
		t.Fatalf("enemies = %d, want %d", len(s.Enemies), config.EnemyRows*config.EnemyCols)
	}
	if s.Episode != 1 || !s.Active() {
		t.Fatalf("episode %d phase %v, want 1 active", s.Episode, s.Phase)
	}
	evs := s.DrainEvents()
	if len(evs) != 1 || evs[0].Kind != EventBackgroundLoopStart {
		t.Fatalf("start events = %v, want one backgroundLoopStart", evs)
	}
}

func TestInitFormationLayout(t *testing.T) {
	enemies := InitFormation(5, 10)
	if len(enemies) != 50 {
		t.Fatalf("len = %d, want 50", len(enemies))
	}
	last := enemies[len(enemies)-1]
	if last.X != 9*60+50 || last.Y != 4*40+50 {
		t.Fatalf("last enemy at (%v, %v), want (590, 210)", last.X, last.Y)
	}
}

func TestFormationAdvanceWithoutReversal(t *testing.T) {
	f := NewFormation()
	enemies := []*object.Enemy{enemyAt(100, 50), enemyAt(160, 50)}

	if f.Advance(enemies, 800) {
		t.Fatalf("formation reversed away from the bounds")
	}
	if f.Direction != 1 {
		t.Fatalf("direction = %v, want 1", f.Direction)
	}
	for _, e := range enemies {
		if e.Y != 50 {
			t.Fatalf("enemy descended without reversal: y = %v", e.Y)
		}
	}
	if enemies[0].X != 101.2 {
		t.Fatalf("x = %v, want 101.2", enemies[0].X)
	}
}

func TestFormationReversesOnceWithSingleDescent(t *testing.T) {
	tests := []struct {
		name      string
		direction float64
		xs        []float64
	}{
		{"left bound, two offenders", -1, []float64{1, 1.1, 300}},
		{"right bound, one offender", 1, []float64{100, 758.9}},
		{"exactly on left bound", -1, []float64{1.2, 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormation()
			f.Direction = tt.direction
			var enemies []*object.Enemy
			for _, x := range tt.xs {
				enemies = append(enemies, enemyAt(x, 100))
			}

			if !f.Advance(enemies, 800) {
				t.Fatalf("expected reversal")
			}
			if f.Direction != -tt.direction {
				t.Fatalf("direction = %v, want %v", f.Direction, -tt.direction)
			}
			for i, e := range enemies {
				if e.Y != 100+config.EnemyDropDistance {
					t.Fatalf("enemy %d y = %v, want %v", i, e.Y, 100+config.EnemyDropDistance)
				}
			}
		})
	}
}

func TestFormationAdvanceEmpty(t *testing.T) {
	f := NewFormation()
	if f.Advance(nil, 800) {
		t.Fatalf("empty formation reported a reversal")
	}
	if f.Direction != 1 {
		t.Fatalf("empty formation changed direction")
	}
}

func TestBulletHitsAtMostOneEnemy(t *testing.T) {
	s := newTestState(t)
	s.Enemies = []*object.Enemy{enemyAt(100, 100), enemyAt(130, 100)}
	s.Bullets = []*object.Bullet{bulletAt(128, 110, -config.BulletSpeed)}

	if hits := ResolvePlayerBullets(s); hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
	if len(s.Enemies) != 1 || len(s.Bullets) != 0 {
		t.Fatalf("enemies %d bullets %d, want 1 and 0", len(s.Enemies), len(s.Bullets))
	}
	if s.Score != config.ScorePerEnemy {
		t.Fatalf("score = %d, want %d", s.Score, config.ScorePerEnemy)
	}
	if len(s.Explosions) != 1 || s.Explosions[0].Faction != object.FactionEnemy {
		t.Fatalf("want one enemy explosion, got %d", len(s.Explosions))
	}
	if n := countEvents(s.DrainEvents(), EventEnemyHit); n != 1 {
		t.Fatalf("enemyHit events = %d, want 1", n)
	}
}

func TestEnemyAbsorbsOneBullet(t *testing.T) {
	s := newTestState(t)
	s.Enemies = []*object.Enemy{enemyAt(100, 100)}
	s.Bullets = []*object.Bullet{
		bulletAt(110, 110, -config.BulletSpeed),
		bulletAt(120, 110, -config.BulletSpeed),
	}

	if hits := ResolvePlayerBullets(s); hits != 1 {
		t.Fatalf("hits = %d, want 1", hits)
	}
	if len(s.Bullets) != 1 {
		t.Fatalf("bullets left = %d, want 1", len(s.Bullets))
	}
	if s.Bullets[0].X != 120 {
		t.Fatalf("wrong bullet consumed: remaining x = %v", s.Bullets[0].X)
	}
}

func TestExplosionAtEnemyCentre(t *testing.T) {
	s := newTestState(t)
	s.Enemies = []*object.Enemy{enemyAt(100, 100)}
	s.Bullets = []*object.Bullet{bulletAt(110, 110, -config.BulletSpeed)}

	ResolvePlayerBullets(s)
	ex := s.Explosions[0]
	if ex.X != 120 || ex.Y != 115 {
		t.Fatalf("explosion at (%v, %v), want (120, 115)", ex.X, ex.Y)
	}
}

func TestPlayerLosesOneLifePerTick(t *testing.T) {
	s := newTestState(t)
	px, py := s.Player.X, s.Player.Y
	s.EnemyBullets = []*object.Bullet{
		bulletAt(px+5, py+5, config.EnemyShotSpeed),
		bulletAt(px+20, py+5, config.EnemyShotSpeed),
		bulletAt(px+500, py+5, config.EnemyShotSpeed),
	}

	if !ResolveEnemyBullets(s) {
		t.Fatalf("player should be hit")
	}
	if s.Player.Lives != 2 {
		t.Fatalf("lives = %d, want 2", s.Player.Lives)
	}
	if len(s.EnemyBullets) != 2 {
		t.Fatalf("enemy bullets = %d, want 2", len(s.EnemyBullets))
	}
	evs := s.DrainEvents()
	if n := countEvents(evs, EventPlayerHit); n != 1 {
		t.Fatalf("playerHit events = %d, want 1", n)
	}
	if len(s.Explosions) != 1 || s.Explosions[0].Faction != object.FactionPlayer {
		t.Fatalf("want one player explosion")
	}
}

func TestLivesNeverNegative(t *testing.T) {
	s := newTestState(t)
	s.Player.Lives = 1
	px, py := s.Player.X, s.Player.Y
	for i := 0; i < 3; i++ {
		s.EnemyBullets = append(s.EnemyBullets, bulletAt(px+5, py+5, config.EnemyShotSpeed))
	}

	for i := 0; i < 3; i++ {
		ResolveEnemyBullets(s)
		if s.Player.Lives < 0 {
			t.Fatalf("lives went negative: %d", s.Player.Lives)
		}
	}
	if s.Player.Lives != 0 {
		t.Fatalf("lives = %d, want 0", s.Player.Lives)
	}
	if s.Phase != PhaseOver {
		t.Fatalf("phase = %v, want over", s.Phase)
	}
}

func TestCheckTerminalIdempotent(t *testing.T) {
	s := newTestState(t)
	s.Player.Lives = 0

	for i := 0; i < 4; i++ {
		if !s.CheckTerminal() {
			t.Fatalf("check %d: want terminal", i)
		}
	}
	if s.Player.Lives != 0 {
		t.Fatalf("lives = %d, want 0", s.Player.Lives)
	}
	evs := s.DrainEvents()
	if n := countEvents(evs, EventGameOver); n != 1 {
		t.Fatalf("gameOver events = %d, want 1", n)
	}
	if n := countEvents(evs, EventBackgroundLoopStop); n != 1 {
		t.Fatalf("backgroundLoopStop events = %d, want 1", n)
	}

	if !s.BeginSubmit() {
		t.Fatalf("submission should be armed after game over")
	}
	s.CheckTerminal()
	if s.Submit != SubmitPending {
		t.Fatalf("second terminal check re-armed submission: %v", s.Submit)
	}
}

func TestCheckTerminalEnemyReachesPlayerRow(t *testing.T) {
	s := newTestState(t)
	s.Enemies = []*object.Enemy{enemyAt(100, s.Player.Y-config.EnemyHeight-1)}
	if s.CheckTerminal() {
		t.Fatalf("enemy above the player row ended the game")
	}
	s.Enemies[0].Y++
	if !s.CheckTerminal() {
		t.Fatalf("enemy touching the player row should end the game")
	}
}

func TestNextLevelKeepsScoreAndLives(t *testing.T) {
	s := newTestState(t)
	s.Score = 120
	s.Player.Lives = 2
	s.Player.X = 10
	s.Bullets = []*object.Bullet{bulletAt(1, 1, -12)}
	s.EnemyBullets = []*object.Bullet{bulletAt(1, 1, 12)}
	speed := s.Formation.Speed

	s.NextLevel()

	if s.Level != 2 {
		t.Fatalf("level = %d, want 2", s.Level)
	}
	if got, want := s.Formation.Speed, speed+config.EnemySpeedPerLevel; got != want {
		t.Fatalf("speed = %v, want %v", got, want)
	}
	if s.Score != 120 || s.Player.Lives != 2 {
		t.Fatalf("score/lives = %d/%d, want 120/2", s.Score, s.Player.Lives)
	}
	if len(s.Bullets) != 0 || len(s.EnemyBullets) != 0 {
		t.Fatalf("bullets not cleared")
	}
	if s.Player.X != 375 {
		t.Fatalf("player not recentred: x = %v", s.Player.X)
	}
	if len(s.Enemies) != 50 {
		t.Fatalf("formation not rebuilt: %d enemies", len(s.Enemies))
	}
}

func TestStepClearsLevelOnLastKill(t *testing.T) {
	s := newTestState(t)
	s.Enemies = []*object.Enemy{enemyAt(100, 100)}
	s.Bullets = []*object.Bullet{bulletAt(110, 125, -config.BulletSpeed)}

	Step(s, 1, neverFire)

	if s.Level != 2 {
		t.Fatalf("level = %d, want 2", s.Level)
	}
	if s.Score != config.ScorePerEnemy || s.Player.Lives != 3 {
		t.Fatalf("score/lives = %d/%d, want 10/3", s.Score, s.Player.Lives)
	}
	if got, want := s.Formation.Speed, config.EnemyBaseSpeed+config.EnemySpeedPerLevel; got != want {
		t.Fatalf("speed = %v, want %v", got, want)
	}
	if n := countEvents(s.DrainEvents(), EventLevelUp); n != 1 {
		t.Fatalf("levelUp events = %d, want 1", n)
	}
}

func TestStepExplosionStartsAtFullSize(t *testing.T) {
	s := newTestState(t)
	s.Enemies = []*object.Enemy{enemyAt(100, 100), enemyAt(500, 100)}
	s.Bullets = []*object.Bullet{bulletAt(110, 125, -config.BulletSpeed)}

	Step(s, 1, neverFire)
	if len(s.Explosions) != 1 {
		t.Fatalf("explosions = %d, want 1", len(s.Explosions))
	}
	ex := s.Explosions[0]
	if ex.Radius != config.ExplosionStartRadius || ex.Alpha != 1 {
		t.Fatalf("new explosion radius/alpha = %v/%v, want %v/1", ex.Radius, ex.Alpha, config.ExplosionStartRadius)
	}

	Step(s, 2, neverFire)
	if ex.Radius != config.ExplosionStartRadius+config.ExplosionGrowth {
		t.Fatalf("radius after one tick = %v", ex.Radius)
	}
}

func TestStepEnemyFire(t *testing.T) {
	s := newTestState(t)
	Step(s, 1, fixedRand{f: 0.05, n: 3})
	if len(s.EnemyBullets) != 1 {
		t.Fatalf("enemy bullets = %d, want 1", len(s.EnemyBullets))
	}
	shooter := s.Enemies[3]
	b := s.EnemyBullets[0]
	if b.X != shooter.X+shooter.Width/2 || b.Y != shooter.Y+shooter.Height {
		t.Fatalf("bullet at (%v, %v) not below shooter 3", b.X, b.Y)
	}

	Step(s, 2, fixedRand{f: config.EnemyFireChance})
	if len(s.EnemyBullets) != 1 {
		t.Fatalf("draw at the fire chance should not fire")
	}
}

func TestStepTerminalCheckThrottled(t *testing.T) {
	s := newTestState(t)
	s.Enemies = []*object.Enemy{enemyAt(300, s.Player.Y)}

	for frame := uint64(1); frame < config.TerminalCheckN; frame++ {
		Step(s, frame, neverFire)
		if s.Phase != PhaseActive {
			t.Fatalf("terminal check ran on frame %d", frame)
		}
	}
	Step(s, config.TerminalCheckN, neverFire)
	if s.Phase != PhaseOver {
		t.Fatalf("terminal check should run on frame %d", config.TerminalCheckN)
	}
}

func TestStepNoopWhenOver(t *testing.T) {
	s := newTestState(t)
	s.Player.Lives = 0
	s.CheckTerminal()
	x := s.Enemies[0].X

	Step(s, 7, fixedRand{f: 0})
	if s.Enemies[0].X != x || len(s.EnemyBullets) != 0 {
		t.Fatalf("simulation advanced after game over")
	}
	if s.Frame != 7 {
		t.Fatalf("frame = %d, want 7", s.Frame)
	}
}

func TestScoreMonotonicUntilReset(t *testing.T) {
	s := newTestState(t)
	prev := 0
	for frame := uint64(1); frame <= 300 && s.Active(); frame++ {
		if frame%3 == 0 {
			s.Fire(time.Duration(frame) * time.Second)
		}
		Step(s, frame, fixedRand{f: 0.5})
		if s.Score < prev {
			t.Fatalf("score dropped from %d to %d on frame %d", prev, s.Score, frame)
		}
		prev = s.Score
	}

	s.Player.Lives = 0
	s.CheckTerminal()
	if s.Score != prev {
		t.Fatalf("game over changed the score")
	}

	s.Reset()
	if s.Score != 0 || s.Level != 1 || s.Player.Lives != 3 {
		t.Fatalf("reset left score/level/lives = %d/%d/%d", s.Score, s.Level, s.Player.Lives)
	}
	if s.Formation.Speed != config.EnemyBaseSpeed {
		t.Fatalf("reset left speed at %v", s.Formation.Speed)
	}
	if len(s.Explosions) != 0 || len(s.Bullets) != 0 || len(s.EnemyBullets) != 0 {
		t.Fatalf("reset left entities behind")
	}
}

func TestFireCooldown(t *testing.T) {
	s := newTestState(t)
	if !s.Fire(0) {
		t.Fatalf("first shot should fire")
	}
	if s.Fire(100 * time.Millisecond) {
		t.Fatalf("shot inside the cooldown fired")
	}
	if !s.Fire(150 * time.Millisecond) {
		t.Fatalf("shot after the cooldown should fire")
	}
	if len(s.Bullets) != 2 {
		t.Fatalf("bullets = %d, want 2", len(s.Bullets))
	}
	b := s.Bullets[0]
	if b.X != s.Player.X+s.Player.Width/2-2.5 || b.Y != s.Player.Y {
		t.Fatalf("bullet spawned at (%v, %v)", b.X, b.Y)
	}
	if n := countEvents(s.DrainEvents(), EventShoot); n != 2 {
		t.Fatalf("shoot events = %d, want 2", n)
	}
}

func TestFireIgnoredWhenOver(t *testing.T) {
	s := newTestState(t)
	s.Player.Lives = 0
	s.CheckTerminal()
	if s.Fire(time.Hour) {
		t.Fatalf("fired after game over")
	}
}

func TestSetMove(t *testing.T) {
	s := newTestState(t)
	s.SetMove(Left, true)
	s.SetMove(Right, true)
	s.SetMove(Left, false)
	if s.Player.Moving.Left || !s.Player.Moving.Right {
		t.Fatalf("moving = %+v, want right only", s.Player.Moving)
	}
}

func TestSubmissionLifecycle(t *testing.T) {
	s := newTestState(t)
	if s.BeginSubmit() {
		t.Fatalf("submission allowed while playing")
	}

	s.Player.Lives = 0
	s.CheckTerminal()
	if s.PlayAgain() {
		t.Fatalf("play again before the score was recorded")
	}

	if !s.BeginSubmit() {
		t.Fatalf("first confirmation should start a submission")
	}
	if s.BeginSubmit() {
		t.Fatalf("second confirmation started another submission")
	}

	s.FinishSubmit(errors.New("network down"))
	if s.Submit != SubmitArmed {
		t.Fatalf("failed submission should re-arm, got %v", s.Submit)
	}
	if !s.BeginSubmit() {
		t.Fatalf("retry should be allowed after a failure")
	}
	s.FinishSubmit(nil)
	if s.Submit != SubmitDone {
		t.Fatalf("submit = %v, want done", s.Submit)
	}

	episode := s.Episode
	if !s.PlayAgain() {
		t.Fatalf("play again refused after recording the score")
	}
	if s.Episode != episode+1 || !s.Active() || s.Submit != SubmitLocked {
		t.Fatalf("play again did not start a fresh episode")
	}
	if n := countEvents(s.DrainEvents(), EventBackgroundLoopStart); n != 1 {
		t.Fatalf("backgroundLoopStart events = %d, want 1", n)
	}
}

func TestDispatchOrder(t *testing.T) {
	s := newTestState(t)
	s.Fire(0)
	s.Player.Lives = 0
	s.CheckTerminal()

	var got []string
	s.Dispatch(ListenerFunc(func(ev Event) { got = append(got, ev.Kind.String()) }), nil)

	want := []string{"shoot", "gameOver", "backgroundLoopStop"}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if len(s.DrainEvents()) != 0 {
		t.Fatalf("dispatch did not drain the queue")
	}
}
