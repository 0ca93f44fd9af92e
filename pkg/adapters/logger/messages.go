package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Session level messages (info)
		"Starting session: %d pictures, %d B pictures per group": "セッションを開始します: %d ピクチャ、グループあたり B ピクチャ %d 枚",
		"Session completed: %d frames written, %d bytes":         "セッションが完了しました: %d フレーム、%d バイトを書き込みました",
		"Session aborted: %s":                                    "セッションを中断しました: %s",
		"Last group shortened to %d B pictures":                  "最終グループを B ピクチャ %d 枚に短縮しました",
		"Statistics written to %s":                               "統計を %s に書き込みました",
		"Failed to write statistics: %s":                         "統計の書き込みに失敗しました: %s",

		// CLI
		"Coding %s (%dx%d)...":                          "%s を符号化中 (%dx%d)...",
		"Output saved to %s":                            "出力を %s に保存しました",
		"%d primary, %d B and %d redundant pictures coded": "プライマリ %d 枚、B %d 枚、冗長 %d 枚を符号化しました",
		"Sequence parameters read from %s":              "シーケンスパラメータを %s から読み込みました",
		"Source has %d frames, %d needed":               "入力は %d フレームですが %d フレーム必要です",
		"Interrupted, shutting down...":                 "中断されました。シャットダウン中...",

		// Code stage
		"Coded %s %s picture %d (source %d, frame_num %d, POC %d/%d), %d bytes": "%s %s ピクチャ %d を符号化 (入力 %d, frame_num %d, POC %d/%d), %d バイト",

		// Sequencer
		"Replacing pending %s field of picture %d":   "ピクチャ %[2]d の保留中の %[1]s フィールドを置き換えます",
		"Synthesized %s field for unpaired picture %d": "対のないピクチャ %[2]d に %[1]s フィールドを合成しました",

		// Debug output
		"Failed to save debug output: %s": "デバッグ出力の保存に失敗しました: %s",
		"Failed to render preview: %s":    "プレビューの描画に失敗しました: %s",
	})
}
