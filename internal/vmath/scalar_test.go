package vmath

import (
	"math"
	"testing"
)

func TestRoundHalfToEven(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.5, 0},
		{1.5, 2},
		{2.5, 2},
		{-0.5, 0},
		{-1.5, -2},
		{2.4, 2},
	}
	for _, tt := range tests {
		if got := Round(tt.in); got != tt.want {
			t.Errorf("Round(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if RoundToInt(3.5) != 4 {
		t.Errorf("RoundToInt(3.5) = %d", RoundToInt(3.5))
	}
}

func TestSign(t *testing.T) {
	if Sign(0) != 1 || Sign(2) != 1 || Sign(-0.1) != -1 {
		t.Errorf("Sign() returned unexpected values")
	}
}

func TestClampLerp(t *testing.T) {
	if Clamp(5, 0, 3) != 3 || Clamp(-1, 0, 3) != 0 || Clamp(2, 0, 3) != 2 {
		t.Error("Clamp() out of range")
	}
	if Lerp(0, 10, 1.5) != 10 {
		t.Errorf("Lerp() = %v", Lerp(0, 10, 1.5))
	}
	if LerpUnclamped(0, 10, 1.5) != 15 {
		t.Errorf("LerpUnclamped() = %v", LerpUnclamped(0, 10, 1.5))
	}
	if InverseLerp(10, 20, 15) != 0.5 {
		t.Errorf("InverseLerp() = %v", InverseLerp(10, 20, 15))
	}
	if InverseLerp(20, 10, 15) != 0.5 {
		t.Errorf("InverseLerp() reversed = %v", InverseLerp(20, 10, 15))
	}
	if InverseLerp(5, 5, 5) != 0 {
		t.Errorf("InverseLerp() degenerate = %v", InverseLerp(5, 5, 5))
	}
}

func TestAngles(t *testing.T) {
	tests := []struct {
		cur, target, want float64
	}{
		{10, 350, -20},
		{350, 10, 20},
		{0, 180, 180},
		{0, 540, 180},
	}
	for _, tt := range tests {
		if got := DeltaAngle(tt.cur, tt.target); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DeltaAngle(%v, %v) = %v, want %v", tt.cur, tt.target, got, tt.want)
		}
	}
	if got := LerpAngle(350, 10, 0.5); math.Abs(Repeat(got, 360)) > 1e-9 {
		t.Errorf("LerpAngle() = %v, want 0 mod 360", got)
	}
	if got := MoveTowardsAngle(350, 10, 5); math.Abs(got-355) > 1e-9 {
		t.Errorf("MoveTowardsAngle() = %v", got)
	}
}

func TestRepeatPingPong(t *testing.T) {
	if got := Repeat(7, 3); math.Abs(got-1) > 1e-12 {
		t.Errorf("Repeat() = %v", got)
	}
	if got := Repeat(-1, 3); math.Abs(got-2) > 1e-12 {
		t.Errorf("Repeat() negative = %v", got)
	}
	if got := PingPong(4, 3); math.Abs(got-2) > 1e-12 {
		t.Errorf("PingPong() = %v", got)
	}
}

func TestApproximately(t *testing.T) {
	if !Approximately(1, 1+1e-8) {
		t.Error("1 and 1+1e-8 should be approximately equal")
	}
	if Approximately(1, 1.001) {
		t.Error("1 and 1.001 should differ")
	}
	if !Approximately(0, 0) {
		t.Error("0 should equal 0")
	}
}

func TestSmoothStepAndMoveTowards(t *testing.T) {
	if SmoothStep(0, 1, 0.5) != 0.5 {
		t.Errorf("SmoothStep(0.5) = %v", SmoothStep(0, 1, 0.5))
	}
	if MoveTowards(0, 10, 3) != 3 || MoveTowards(9, 10, 3) != 10 {
		t.Error("MoveTowards() wrong")
	}
}

func TestSmoothDamp(t *testing.T) {
	cur, vel := 0.0, 0.0
	for i := 0; i < 1000; i++ {
		cur, vel = SmoothDamp(cur, 5, vel, 0.2, math.Inf(1), 0.01)
		if cur > 5 {
			t.Fatalf("SmoothDamp() overshot at step %d: %v", i, cur)
		}
	}
	if math.Abs(cur-5) > 1e-3 {
		t.Errorf("SmoothDamp() = %v, want ~5", cur)
	}
}

func TestGamma(t *testing.T) {
	if got := Gamma(-0.5, 1, 2); math.Abs(got+0.25) > 1e-12 {
		t.Errorf("Gamma() = %v, want -0.25", got)
	}
	if got := Gamma(3, 1, 2); got != 3 {
		t.Errorf("Gamma() above absmax = %v", got)
	}
}

func TestMinMaxLogBase(t *testing.T) {
	if Min(3, 1, 2) != 1 || Max(3, 1, 2) != 3 || Min() != 0 {
		t.Error("Min/Max wrong")
	}
	if got := LogBase(8, 2); math.Abs(got-3) > 1e-12 {
		t.Errorf("LogBase(8, 2) = %v", got)
	}
}

func TestLineIntersection(t *testing.T) {
	p, ok := LineIntersection(Vec2(0, 0), Vec2(1, 1), Vec2(0, 2), Vec2(2, 0))
	if !ok || !p.Equal(Vec2(1, 1)) {
		t.Errorf("LineIntersection() = %v, %v", p, ok)
	}

	if _, ok := LineIntersection(Vec2(0, 0), Vec2(1, 0), Vec2(0, 1), Vec2(1, 1)); ok {
		t.Error("parallel lines should not intersect")
	}

	if _, ok := LineSegmentIntersection(Vec2(0, 0), Vec2(1, 0), Vec2(2, -1), Vec2(2, 1)); ok {
		t.Error("disjoint segments should not intersect")
	}
	p, ok = LineSegmentIntersection(Vec2(0, 0), Vec2(4, 0), Vec2(2, -1), Vec2(2, 1))
	if !ok || !p.Equal(Vec2(2, 0)) {
		t.Errorf("LineSegmentIntersection() = %v, %v", p, ok)
	}
}
