package infrastructure

import (
	"testing"

	"github.com/shirou/gopsutil/v3/disk"
)

func TestDiskReading(t *testing.T) {
	part := disk.PartitionStat{Device: "/dev/sda1", Mountpoint: "/", Fstype: "ext4"}

	tests := []struct {
		name     string
		usage    disk.UsageStat
		wantUsed uint64
	}{
		// ext4 keeps 5% reserved: Used excludes it, Free is what users can write
		{name: "reserved blocks count as used", usage: disk.UsageStat{Total: 1000, Free: 700, Used: 250}, wantUsed: 300},
		{name: "empty filesystem", usage: disk.UsageStat{Total: 1000, Free: 1000}, wantUsed: 0},
		{name: "free above total", usage: disk.UsageStat{Total: 0, Free: 10}, wantUsed: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diskReading(part, &tt.usage)
			if got.Used != tt.wantUsed {
				t.Errorf("expected used %d, got %d", tt.wantUsed, got.Used)
			}
			if got.Available != tt.usage.Free {
				t.Errorf("expected available %d, got %d", tt.usage.Free, got.Available)
			}
			if tt.usage.Total >= tt.usage.Free && got.Used+got.Available != got.Total {
				t.Errorf("expected used+available == total, got %d+%d != %d", got.Used, got.Available, got.Total)
			}
			if got.MountPoint != "/" || got.FileSystem != "ext4" {
				t.Errorf("unexpected partition fields: %+v", got)
			}
		})
	}
}
