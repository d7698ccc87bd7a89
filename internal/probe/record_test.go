package probe

import (
	"errors"
	"testing"
	"time"

	"github.com/woozymasta/mcstatus/internal/bedrock"
	"github.com/woozymasta/mcstatus/internal/chat"
	"github.com/woozymasta/mcstatus/internal/java"
	"github.com/woozymasta/mcstatus/internal/resolver"
	"github.com/woozymasta/mcstatus/internal/wire"
)

func TestRecord_Java(t *testing.T) {
	bold := true
	res := &Result{
		Family: FamilyJava,
		Target: resolver.Target{Host: "mc.example.net", Port: 25600, SRV: true},
		Java: &java.Status{
			Version: java.Version{Name: "§61.21"},
			Players: java.Players{Online: 4, Max: 50},
			MOTD:    chat.Component{Text: "Hi ", Extra: []chat.Component{{Text: "there", Bold: &bold}}},
			IP:      "203.0.113.7",
			Latency: 12,
		},
	}

	at := time.Unix(100, 0)
	rec := Record(FamilyJava, "example.net", 25565, res, nil, "DE", at)

	if !rec.Online || !rec.SRV || rec.TargetHost != "mc.example.net" || rec.TargetPort != 25600 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Version != "1.21" || rec.MOTD != "Hi there" || rec.PlayersOnline != 4 || rec.Latency != 12 {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.IP != "203.0.113.7" || rec.CountryCode != "DE" || !rec.CheckedAt.Equal(at) {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRecord_Bedrock(t *testing.T) {
	res := &Result{Bedrock: &bedrock.Status{VersionName: "1.20.0", MOTD: "§bSky", OnlinePlayers: 1, MaxPlayers: 10}}

	rec := Record(FamilyBedrock, "example.net", 19132, res, nil, "", time.Now())
	if rec.MOTD != "Sky" || rec.Version != "1.20.0" || rec.PlayersMax != 10 {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRecord_Failure(t *testing.T) {
	err := &Error{Kind: KindConnectionRefused, Err: errors.New("refused")}

	rec := Record(FamilyJava, "example.net", 25565, nil, err, "", time.Now())
	if rec.Online || rec.ErrorCode != string(KindConnectionRefused) {
		t.Fatalf("unexpected record %+v", rec)
	}

	rec = Record(FamilyJava, "example.net", 25565, nil, wire.ErrTimeout, "", time.Now())
	if rec.ErrorCode != string(KindTimeout) {
		t.Fatalf("unexpected error code %q", rec.ErrorCode)
	}
}
