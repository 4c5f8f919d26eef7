// Package main provides localization for the socialimages CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Inputs":   "入力",
		"Template": "テンプレート",
		"Browser":  "ブラウザ設定",
		"Debug":    "デバッグ",
		"Logging":  "ログ",

		// Root command
		"Generate social preview images from an HTML template": "HTMLテンプレートからソーシャルプレビュー画像を生成",
		"socialimages version %s":                              "socialimages バージョン %s",

		// Root command description
		"socialimages renders one 1200x630 PNG per record of a data file by loading an HTML template into headless Chromium.": "socialimagesはHTMLテンプレートをヘッドレスChromiumで読み込み、データファイルのレコードごとに1200x630のPNGを描画します。",

		// Input flags
		"YAML config file, flags override its values":           "YAML設定ファイル（フラグの値が優先されます）",
		"Existing output directory (default: _site)":            "既存の出力ディレクトリ（デフォルト: _site）",
		"Preview directory under outputDir (default: previews)": "outputDir配下のプレビューディレクトリ（デフォルト: previews）",
		"JSON or YAML file of records (default: pages.json)":    "レコードのJSONまたはYAMLファイル（デフォルト: pages.json）",

		// Template flags
		"HTML template (default: bundled template)":               "HTMLテンプレート（デフォルト: 同梱テンプレート）",
		"CSS stylesheet (default: bundled stylesheet)":            "CSSスタイルシート（デフォルト: 同梱スタイルシート）",
		"Site name shown on every preview (default: 11ty Rocks!)": "全プレビューに表示するサイト名（デフォルト: 11ty Rocks!）",
		"Theme class applied to the template (default: blue)":     "テンプレートに適用するテーマクラス（デフォルト: blue）",
		"Element that receives each record title (default: h1)":   "各レコードのタイトルを挿入する要素（デフォルト: h1）",

		// System browser flag
		"Use the Chrome installed on the host instead of a bundled Chromium": "同梱のChromiumではなくホストにインストールされたChromeを使用",

		// Browser flags
		"Path to Chrome executable":                      "Chrome実行ファイルのパス",
		"Browser automation engine (chromedp, rod)":      "ブラウザ自動操作エンジン（chromedp, rod）",
		"Run browser in non-headless mode":               "ブラウザを非ヘッドレスモードで実行",
		"Template load timeout in seconds (default: 30)": "テンプレート読み込みのタイムアウト秒数（デフォルト: 30）",

		// Debug flags
		"Enable debug output":                                "デバッグ出力を有効化",
		"Directory for debug output (default: ./debug)":      "デバッグ出力のディレクトリ（デフォルト: ./debug）",
		"Output execution summary to file (Markdown format)": "実行サマリーをファイルに出力（Markdown形式）",

		// Logging flags
		"Log level (debug, info, warn, error)": "ログレベル（debug, info, warn, error）",
		"Suppress all log output":              "全てのログ出力を抑制",

		// Runtime messages
		"Interrupted, shutting down...": "中断されました。シャットダウン中...",
		"Summary saved to %s":           "サマリーを %s に保存しました",
		"Failed to write summary: %s":   "サマリーの書き込みに失敗しました: %s",
	})
}
