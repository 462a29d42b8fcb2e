package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planwise/timetable-companion/internal/models"
)

func timelineFixture() *TimelineService {
	svc := NewTimelineService(nil)
	svc.SetDay([]models.ClassItem{
		{Start: "9:00 AM", End: "10:00 AM", Subject: "A"},
		{Start: "10:00 AM", End: "11:00 AM", Subject: "B"},
	})
	svc.SetExtents([]Extent{
		{Top: 0, Bottom: 100},
		{Top: 100, Bottom: 250},
	})
	return svc
}

func TestAxisIsMaxBottomPlusTail(t *testing.T) {
	svc := timelineFixture()

	assert.Equal(t, 300.0, svc.Axis())
	assert.Zero(t, NewTimelineService(nil).Axis())
}

func TestSetScrollClampsProgress(t *testing.T) {
	svc := timelineFixture()

	// axis 300, usable 280; full scroll lands at the far pad.
	svc.SetScroll(500, 100)
	for i := 0; i < 200; i++ {
		svc.Step()
	}
	assert.InDelta(t, 290.0, svc.Pointer(), 0.01)

	svc.SetScroll(-50, 100)
	for i := 0; i < 200; i++ {
		svc.Step()
	}
	assert.InDelta(t, 10.0, svc.Pointer(), 0.01)
}

func TestStepCoversTenPercentAndSnaps(t *testing.T) {
	svc := timelineFixture()
	svc.SetScroll(50, 100) // target = 10 + 0.5*280 = 150

	update := svc.Step()
	assert.InDelta(t, 24.0, update.Pointer, 0.01) // 10 + 0.1*140

	// Converges and snaps exactly onto the target.
	for i := 0; i < 200; i++ {
		update = svc.Step()
	}
	assert.Equal(t, 150.0, update.Pointer)
}

func TestActiveIndexFollowsTarget(t *testing.T) {
	svc := timelineFixture()

	svc.SetScroll(0, 100)
	assert.Equal(t, 0, svc.ActiveIndex())

	svc.SetScroll(50, 100) // target 150, inside the second extent
	assert.Equal(t, 1, svc.ActiveIndex())
}

func TestActiveIndexWithoutExtents(t *testing.T) {
	svc := NewTimelineService(nil)
	svc.SetScroll(0, 0)

	assert.Equal(t, -1, svc.ActiveIndex())
}

func TestTimeEmphasizedWithinActiveSpan(t *testing.T) {
	svc := timelineFixture()
	svc.SetScroll(50, 100) // active item B, 10:00-11:00

	assert.True(t, svc.TimeEmphasized("10:00 AM"))
	assert.True(t, svc.TimeEmphasized("11:00 AM"))
	assert.False(t, svc.TimeEmphasized("9:30 AM"))
	assert.False(t, svc.TimeEmphasized("garbage"))
}

func TestRunStopsOnCancel(t *testing.T) {
	svc := timelineFixture()
	svc.SetScroll(50, 100)

	steps := make(chan TimelineUpdate, 64)
	svc.SetObserver(func(u TimelineUpdate) {
		select {
		case steps <- u:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-steps:
	case <-time.After(time.Second):
		t.Fatal("no animation step observed")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("run loop did not stop on cancel")
	}
}

func TestActiveNow(t *testing.T) {
	item := models.ClassItem{Start: "9:00 AM", End: "10:00 AM"}

	require.True(t, ActiveNow(item, 9*60+30, "Monday", "Monday"))
	assert.False(t, ActiveNow(item, 9*60+30, "Monday", "Tuesday"))
	assert.True(t, ActiveNow(item, 9*60, "Monday", "Monday"))  // start inclusive
	assert.True(t, ActiveNow(item, 10*60, "Monday", "Monday")) // end inclusive
	assert.False(t, ActiveNow(item, 10*60+1, "Monday", "Monday"))
	assert.False(t, ActiveNow(models.ClassItem{Start: "bad"}, 570, "Monday", "Monday"))
}
