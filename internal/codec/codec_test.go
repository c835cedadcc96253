package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/tabbybot/tabby/internal/task"
)

func TestDecode(t *testing.T) {
	sixPM := time.Date(2019, 12, 2, 18, 0, 0, 0, time.Local)
	eightPM := time.Date(2019, 12, 2, 20, 0, 0, 0, time.Local)

	t.Run("done todo", func(t *testing.T) {
		got, err := Decode("[T][X] buy milk")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Kind() != task.KindToDo || got.Description() != "buy milk" || !got.IsDone() {
			t.Errorf("got %v", got)
		}
	})

	t.Run("deadline", func(t *testing.T) {
		got, err := Decode("[D][ ] pay bill (by: Dec 02 2019, 6:00 pm)")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		d, ok := got.(*task.Deadline)
		if !ok {
			t.Fatalf("got %T, want *task.Deadline", got)
		}
		if d.Description() != "pay bill" || d.IsDone() {
			t.Errorf("got %v", d)
		}
		if !d.By.Equal(sixPM) {
			t.Errorf("By: got %v, want %v", d.By, sixPM)
		}
	})

	t.Run("event", func(t *testing.T) {
		got, err := Decode("[E][X] project meet (from: Dec 02 2019, 6:00 pm to: Dec 02 2019, 8:00 pm)")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		e, ok := got.(*task.Event)
		if !ok {
			t.Fatalf("got %T, want *task.Event", got)
		}
		if !e.From.Equal(sixPM) || !e.To.Equal(eightPM) || !e.IsDone() {
			t.Errorf("got %v", e)
		}
	})

	t.Run("description keeps parentheses", func(t *testing.T) {
		got, err := Decode("[D][ ] call (mum) (by: Dec 02 2019, 6:00 pm)")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Description() != "call (mum)" {
			t.Errorf("Description: got %q", got.Description())
		}
	})

	t.Run("description keeps an earlier trailer", func(t *testing.T) {
		got, err := Decode("[D][ ] reply (by: Friday) email (by: Dec 02 2019, 6:00 pm)")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		d := got.(*task.Deadline)
		if d.Description() != "reply (by: Friday) email" || !d.By.Equal(sixPM) {
			t.Errorf("got %q by %v", d.Description(), d.By)
		}

		got, err = Decode("[E][ ] talk (from: home to: office) (from: Dec 02 2019, 6:00 pm to: Dec 02 2019, 8:00 pm)")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got.Description() != "talk (from: home to: office)" {
			t.Errorf("Description: got %q", got.Description())
		}
	})
}

func TestDecodeMalformed(t *testing.T) {
	lines := []string{
		"",
		"walk the dog",
		"[X][ ] unknown tag",
		"[T][Y] bad marker",
		"[T][ ]",
		"[D][ ] no trailer",
		"[D][ ] bad date (by: 2/12/2019 1800)",
		"[E][ ] half (from: Dec 02 2019, 6:00 pm)",
		"[E][ ] bad to (from: Dec 02 2019, 6:00 pm to: tomorrow)",
	}
	for _, line := range lines {
		if _, err := Decode(line); !errors.Is(err, ErrMalformedLine) {
			t.Errorf("Decode(%q): got %v, want ErrMalformedLine", line, err)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	sixPM := time.Date(2019, 12, 2, 18, 0, 0, 0, time.Local)
	later := time.Date(2031, 1, 31, 23, 59, 0, 0, time.Local)

	todo, _ := task.NewToDo("walk   the dog")
	doneTodo, _ := task.NewToDo("feed cat")
	doneTodo.MarkDone()
	deadline, _ := task.NewDeadline("submit report", sixPM)
	event, _ := task.NewEvent("conference", later, sixPM)
	event.MarkDone()

	for _, want := range []task.Task{todo, doneTodo, deadline, event} {
		line := Encode(want)
		got, err := Decode(line)
		if err != nil {
			t.Fatalf("Decode(%q): %v", line, err)
		}
		if !task.Equal(got, want) {
			t.Errorf("round trip: got %v, want %v", got, want)
		}
	}
}
