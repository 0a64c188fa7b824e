package parser

import (
	"testing"
)

// BenchmarkParse_Kill benchmarks parsing a kill event.
func BenchmarkParse_Kill(b *testing.B) {
	line := " 21:42 Kill: 1022 2 22: <world> killed Isgalamido by MOD_TRIGGER_HURT"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(line)
	}
}

// BenchmarkParse_Userinfo benchmarks parsing a ClientUserinfoChanged event.
func BenchmarkParse_Userinfo(b *testing.B) {
	line := ` 20:34 ClientUserinfoChanged: 2 n\Isgalamido\t\0\model\xian/default\hmodel\xian/default\g_redteam\\g_blueteam\\c1\4\c2\5\hc\100\w\0\l\0\tt\0\tl\0`

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(line)
	}
}

// BenchmarkParse_Ignored benchmarks parsing a line the summaries do not use.
func BenchmarkParse_Ignored(b *testing.B) {
	line := " 20:40 Item: 2 weapon_rocketlauncher"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Parse(line)
	}
}
