package cli

import "testing"

func TestAudioTitle(t *testing.T) {
	tests := []struct {
		name      string
		arg       string
		sourceURL string
		want      string
	}{
		{
			"local file",
			"/home/user/recordings/standup.mp3",
			"",
			"standup.mp3",
		},
		{
			"remote file",
			"https://example.com/podcasts/ep42.mp3",
			"https://example.com/podcasts/ep42.mp3",
			"ep42.mp3",
		},
		{
			"remote URL without path",
			"https://example.com",
			"https://example.com",
			"https://example.com",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := audioTitle(test.arg, test.sourceURL); got != test.want {
				t.Errorf("expected %q, got %q", test.want, got)
			}
		})
	}
}
