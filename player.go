package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/colornames"

	"tilekit/physics"
)

// playerState is the interface each concrete player state implements.
type playerState interface {
	Enter(p *Player)
	HandleInput(p *Player)
	OnPhysics(p *Player)
	Name() string
}

const (
	// velocities are in pixels per second; the world steps with dt
	jumpSpeed             = -720
	moveSpeed             = 300
	maxFallSpeed          = 1080
	jumpBufferTimerAmount = 10 // frames
	coyoteTimeFrames      = 6  // allow jump within this many frames after leaving ground
)

// setState helper switches states and calls Enter.
func (p *Player) setState(s playerState) {
	p.state = s
	p.state.Enter(p)
}

// Concrete states
type idleState struct{}

func (idleState) Name() string    { return "idle" }
func (idleState) Enter(p *Player) {}
func (idleState) HandleInput(p *Player) {
	if p.Input.JumpPressed {
		p.Body.Velocity.Y = jumpSpeed
		p.setState(stateJumping)
		return
	}
	if p.Input.MoveX != 0 {
		p.setState(stateRunning)
	}
}
func (idleState) OnPhysics(p *Player) {
	if !p.Body.OnGround() {
		p.setState(stateFalling)
	}
}

type runningState struct{}

func (runningState) Name() string    { return "running" }
func (runningState) Enter(p *Player) {}
func (runningState) HandleInput(p *Player) {
	if p.Input.JumpPressed {
		p.Body.Velocity.Y = jumpSpeed
		p.setState(stateJumping)
		return
	}
	if p.Input.MoveX == 0 {
		p.setState(stateIdle)
	}
}
func (runningState) OnPhysics(p *Player) {
	if !p.Body.OnGround() {
		p.setState(stateFalling)
	}
}

type jumpingState struct{}

func (jumpingState) Name() string    { return "jumping" }
func (jumpingState) Enter(p *Player) {}
func (jumpingState) HandleInput(p *Player) {
	if p.Input.JumpPressed {
		if !p.doubleJumped {
			p.doubleJumped = true
			p.Body.Velocity.Y = jumpSpeed
			p.setState(stateDoubleJumping)
			return
		}
		// already used double jump -> record buffer for next landing
		p.jumpBuffer = true
		p.jumpBufferTimer = jumpBufferTimerAmount
	}
}
func (jumpingState) OnPhysics(p *Player) {
	if p.Body.Velocity.Y > 0 {
		p.setState(stateFalling)
	}
}

type doubleJumpingState struct{}

func (doubleJumpingState) Name() string    { return "doublejump" }
func (doubleJumpingState) Enter(p *Player) {}
func (doubleJumpingState) HandleInput(p *Player) {
	if p.Input.JumpPressed {
		// already double-jumped; record buffer for landing
		p.jumpBuffer = true
		p.jumpBufferTimer = jumpBufferTimerAmount
	}
}
func (doubleJumpingState) OnPhysics(p *Player) {
	if p.Body.Velocity.Y > 0 {
		p.setState(stateFalling)
	}
}

type fallingState struct{}

func (fallingState) Name() string    { return "falling" }
func (fallingState) Enter(p *Player) {}
func (fallingState) HandleInput(p *Player) {
	if p.Input.JumpPressed {
		// allow coyote jump shortly after leaving ground
		if p.coyoteTimer > 0 && !p.doubleJumped {
			p.coyoteTimer = 0
			p.Body.Velocity.Y = jumpSpeed
			p.setState(stateJumping)
			return
		}
		if !p.doubleJumped {
			p.doubleJumped = true
			p.Body.Velocity.Y = jumpSpeed
			p.setState(stateDoubleJumping)
			return
		}
		// already used double jump -> record buffer for next landing
		p.jumpBuffer = true
		p.jumpBufferTimer = jumpBufferTimerAmount
	}
}
func (fallingState) OnPhysics(p *Player) {
	if p.Body.OnGround() {
		if p.Input.MoveX != 0 {
			p.setState(stateRunning)
		} else {
			p.setState(stateIdle)
		}
		p.doubleJumped = false
	}
}

// singletons for each state to avoid allocating on every transition
var (
	stateIdle          playerState = &idleState{}
	stateRunning       playerState = &runningState{}
	stateJumping       playerState = &jumpingState{}
	stateDoubleJumping playerState = &doubleJumpingState{}
	stateFalling       playerState = &fallingState{}
)

type Player struct {
	Body           *physics.Body
	StartX, StartY float64
	Input          *Input

	state           playerState
	doubleJumped    bool
	jumpBuffer      bool
	jumpBufferTimer int
	coyoteTimer     int
	img             *ebiten.Image
	facingRight     bool
}

func NewPlayer(x, y float64, input *Input, world *physics.World) *Player {
	body := physics.NewBody(x, y, 24, 48)
	body.MaxVelocity.Y = maxFallSpeed
	world.AddBody(body)

	p := &Player{
		Body:        body,
		StartX:      x,
		StartY:      y,
		Input:       input,
		state:       stateIdle,
		facingRight: true,
	}
	p.state.Enter(p)
	body.UserData = p

	p.img = ebiten.NewImage(int(body.Width), int(body.Height))
	p.img.Fill(colornames.Crimson)
	return p
}

// Update runs input handling and state transitions. The world has already
// stepped this frame, so Touching flags are current.
func (p *Player) Update() {
	p.Body.Velocity.X = moveSpeed * p.Input.MoveX
	if p.Input.MoveX < 0 {
		p.facingRight = false
	} else if p.Input.MoveX > 0 {
		p.facingRight = true
	}

	// manage jump buffer timer
	if p.jumpBuffer {
		p.jumpBufferTimer--
		if p.jumpBufferTimer <= 0 {
			p.jumpBuffer = false
		}
	}

	p.state.HandleInput(p)

	// update coyote timer: reset when grounded, count down when airborne
	if p.Body.OnGround() {
		p.coyoteTimer = coyoteTimeFrames
	} else if p.coyoteTimer > 0 {
		p.coyoteTimer--
	}

	// Apply buffered jump if we landed this frame
	if p.jumpBuffer && p.Body.OnGround() {
		p.jumpBuffer = false
		p.doubleJumped = false
		p.Body.Velocity.Y = jumpSpeed
		p.setState(stateJumping)
	}

	p.state.OnPhysics(p)
}

// Respawn puts the player back at the spawn point with zeroed velocity.
func (p *Player) Respawn() {
	p.Body.MoveTo(p.StartX, p.StartY)
	p.Body.Velocity.X = 0
	p.Body.Velocity.Y = 0
	p.doubleJumped = false
	p.jumpBuffer = false
	p.setState(stateIdle)
}

func (p *Player) Draw(screen *ebiten.Image, camX, camY, zoom float64) {
	op := &ebiten.DrawImageOptions{}
	drawX := (p.Body.Position.X - camX) * zoom
	drawY := (p.Body.Position.Y - camY) * zoom
	if p.facingRight {
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate(drawX, drawY)
	} else {
		op.GeoM.Scale(-zoom, zoom)
		op.GeoM.Translate(drawX+p.Body.Width*zoom, drawY)
	}
	screen.DrawImage(p.img, op)

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("State: %s, doubleJumped: %v, touching: %s",
		p.state.Name(), p.doubleJumped, p.Body.Touching), 0, 20)
}
