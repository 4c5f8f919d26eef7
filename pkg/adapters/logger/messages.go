package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting social images...":               "ソーシャル画像の生成を開始します...",
		"Social images complete!":                 "ソーシャル画像の生成が完了しました！",
		"Social images failed: %s":                "ソーシャル画像の生成に失敗しました: %s",
		"Invalid configuration: %s":               "設定が不正です: %s",
		"Loaded %d records from %s":               "%[2]s から %[1]d 件のレコードを読み込みました",
		"Created preview directory %s":            "プレビューディレクトリ %s を作成しました",
		"Contact sheet failed: %s":                "コンタクトシートの生成に失敗しました: %s",
		"Preview directory %s holds %d files":     "プレビューディレクトリ %s には %d 個のファイルがあります",
		"Failed to list preview directory %s: %s": "プレビューディレクトリ %s の一覧取得に失敗しました: %s",

		// Compose stage
		"Composed HTML document: %d bytes":                   "HTMLドキュメントを合成しました: %d バイト",
		"Template has no %s placeholder":                     "テンプレートに %s プレースホルダーがありません",
		"Template has no %s attribute, theme %q not applied": "テンプレートに %s 属性がないため、テーマ %q は適用されません",
		"Theme %q is not styled by the bundled stylesheet":   "テーマ %q は同梱のスタイルシートで定義されていません",
		"Failed to save debug output: %s":                    "デバッグ出力の保存に失敗しました: %s",

		// Session (browser component)
		"Launching browser (%s)":                                "ブラウザを起動中 (%s)",
		"Loading template (%d bytes)":                           "テンプレートを読み込み中 (%d バイト)",
		"Template rendered in %d ms":                            "テンプレートの描画が %d ms で完了しました",
		"Setting viewport: %dx%d at %.1fx (%dx%d pixels)":       "ビューポートを設定: %dx%d (%.1f倍、%dx%d ピクセル)",
		"No %s element in template, %s keeps the template text": "テンプレートに %s 要素がないため、%s はテンプレートの文言のままです",
		"Browser closed":                                        "ブラウザを閉じました",

		// Capture stage
		"No records to capture":         "キャプチャするレコードがありません",
		"Image: %s":                     "画像: %s",
		"Capturing %d previews into %s": "%[2]s に %[1]d 件のプレビューをキャプチャ中",
		"Captured %s (%d bytes)":        "%s をキャプチャしました (%d バイト)",
		"Captured %d previews in %d ms": "%d 件のプレビューを %d ms でキャプチャしました",

		// Contact sheet stage
		"Rendering contact sheet: %dx%d, %d previews": "コンタクトシートを描画中: %dx%d, %d 件のプレビュー",
	})
}
