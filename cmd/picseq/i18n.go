// Package main provides localization for the picseq CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Configuration":      "設定",
		"Input":              "入力",
		"Sequence":           "シーケンス",
		"Redundant Pictures": "冗長ピクチャ",
		"Parameter Sets":     "パラメータセット",
		"Output":             "出力先",
		"Debug":              "デバッグ",
		"Logging":            "ログ",

		// Root command
		"Sequence, code and reconstruct raw video pictures": "生の映像ピクチャを順序付け、符号化し、再構成",

		// Commands
		"Code a raw source and write the reconstructed pictures in output order": "入力を符号化し、再構成ピクチャを出力順に書き出す",
		"Validate a configuration without coding":                                "符号化せずに設定を検証",
		"Write a dyadic hierarchical B table":                                    "二分割の階層 B テーブルを書き出す",

		// Configuration flags
		"YAML configuration file":                     "YAML 設定ファイル",
		"Preset (progressive, interlaced, resilient)": "プリセット（progressive, interlaced, resilient）",

		// Input flags
		"Raw planar YUV source file":   "生のプレーナ YUV 入力ファイル",
		"Source width in luma samples":  "入力の幅（輝度サンプル数）",
		"Source height in luma samples": "入力の高さ（輝度サンプル数）",
		"Source sample bit depth":       "入力サンプルのビット深度",
		"Chroma format (0 = 4:0:0, 1 = 4:2:0, 2 = 4:2:2, 3 = 4:4:4)": "色差フォーマット（0 = 4:0:0, 1 = 4:2:0, 2 = 4:2:2, 3 = 4:4:4）",

		// Sequence flags
		"Number of primary pictures to code":               "符号化するプライマリピクチャ数",
		"Index of the last source frame (0 = unknown)":     "入力の最終フレーム番号（0 = 不明）",
		"Intra picture period (0 = first picture only)":    "イントラピクチャ周期（0 = 先頭のみ）",
		"IDR picture period (0 = first picture only)":      "IDR ピクチャ周期（0 = 先頭のみ）",
		"B pictures between primary pictures":              "プライマリピクチャ間の B ピクチャ数",
		"Source frames skipped between primary pictures":   "プライマリピクチャ間でスキップする入力フレーム数",
		"Picture level interlace (frame, field, adaptive)": "ピクチャ単位のインターレース（frame, field, adaptive）",
		"Hierarchical B table file (YAML)":                 "階層 B テーブルファイル（YAML）",

		// Redundant flags
		"Enable redundant pictures with this primary GOP length": "このプライマリ GOP 長で冗長ピクチャを有効化",
		"Redundant hierarchy depth (0-4)":                        "冗長ピクチャの階層の深さ（0-4）",

		// Parameter set flags
		"Read sequence parameters from an H.264 byte stream or MP4 file": "H.264 バイトストリームまたは MP4 ファイルからシーケンスパラメータを読み込む",

		// Output flags
		"Reconstructed YUV output file":  "再構成 YUV 出力ファイル",
		"Statistics file (.yaml or .md)": "統計ファイル（.yaml または .md）",
		"Output file (default: stdout)":  "出力ファイル（デフォルト: 標準出力）",

		// Debug flags
		"Enable debug output":        "デバッグ出力を有効化",
		"Directory for debug output": "デバッグ出力のディレクトリ",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Check output
		"Configuration is valid":                         "設定は有効です",
		"Primary pictures: %d, B pictures per group: %d": "プライマリピクチャ: %d, グループあたり B ピクチャ: %d",
		"Order count offsets: non-reference %d, reference %d, top to bottom %d": "POC オフセット: 非参照 %d, 参照 %d, トップからボトム %d",
		"Maximum frame number: %d": "最大フレーム番号: %d",

		// Error messages
		"An input file is required":                "入力ファイルが必要です",
		"A positive B picture count is required":   "正の B ピクチャ数が必要です",
		"Incompatible configuration: %s":           "設定の組み合わせが不正です: %s",
		"Out of resources: %s":                     "リソースが不足しています: %s",
	})
}
