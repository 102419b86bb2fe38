package test

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitprogress/internal/history"
	"github.com/2beens/fitprogress/internal/progress"
)

func (s *IntegrationTestSuite) TestProgress_stateSurvivesRestart() {
	status, body := s.do("POST", "/progress/exercise/e1/set", "", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	status, _ = s.do("POST", "/progress/exercise/e13/done", "", nil)
	s.Require().Equal(http.StatusOK, status)

	var totalsBefore progress.Totals
	s.getJSON("/progress/totals", &totalsBefore)
	s.Equal(1, totalsBefore.CompletedExercises)

	s.restartServer()

	var state progress.State
	s.getJSON("/progress/state", &state)
	s.Equal(1, state["e1"].CompletedSets)
	s.Equal(4, state["e13"].CompletedSets)
	s.Len(state, 16)

	var totalsAfter progress.Totals
	s.getJSON("/progress/totals", &totalsAfter)
	s.Equal(totalsBefore, totalsAfter)

	var summary history.Summary
	s.getJSON("/progress/history", &summary)
	s.Equal(totalsAfter.Percent, summary.Days[history.DaysInWeek-1])
}

func (s *IntegrationTestSuite) TestProgress_corruptStateSelfHeals() {
	ctx := context.Background()
	s.Require().NoError(s.redisClient.Set(ctx, progress.DefaultStorageKey, "{not json", 0).Err())

	s.restartServer()

	var state progress.State
	s.getJSON("/progress/state", &state)
	s.Len(state, 16)
	for id, p := range state {
		s.Zero(p.CompletedSets, id)
	}

	stored, err := s.redisClient.Get(ctx, progress.DefaultStorageKey).Result()
	s.Require().NoError(err)
	s.True(strings.HasPrefix(stored, "{\"e1\":"), stored)
}

func (s *IntegrationTestSuite) TestProgress_clearAll() {
	for i := 0; i < 5; i++ {
		status, _ := s.do("POST", "/progress/exercise/e5/set", "", nil)
		s.Require().Equal(http.StatusOK, status)
	}

	var state progress.State
	s.getJSON("/progress/state", &state)
	// clamped to the target sets
	s.Equal(3, state["e5"].CompletedSets)

	status, _ := s.do("POST", "/progress/clear", "", nil)
	s.Require().Equal(http.StatusOK, status)

	var totals progress.Totals
	s.getJSON("/progress/totals", &totals)
	s.Equal(progress.Totals{}, totals)

	var summary history.Summary
	s.getJSON("/progress/history", &summary)
	s.Equal([history.DaysInWeek]int{}, summary.Days)
}

func (s *IntegrationTestSuite) TestProgress_unknownExercise() {
	status, _ := s.do("POST", "/progress/exercise/e404/set", "", nil)
	s.Equal(http.StatusNotFound, status)

	exists, err := s.redisClient.Exists(context.Background(), progress.DefaultStorageKey).Result()
	s.Require().NoError(err)
	// only the zero state written on first load
	s.Equal(int64(1), exists)
}

func (s *IntegrationTestSuite) TestProgress_eventsStream() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+"/progress/events", nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	s.Equal("event: ready", s.nextEvent(reader))

	status, _ := s.do("POST", "/progress/exercise/e2/set", "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Equal("event: changed", s.nextEvent(reader))
}

func (s *IntegrationTestSuite) nextEvent(reader *bufio.Reader) string {
	for {
		line, err := reader.ReadString('\n')
		s.Require().NoError(err)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "event:") {
			return line
		}
	}
}
